package main

import (
	"context"
)

// runHTML renders an issue to a standalone HTML file for browser preview.
func runHTML(ctx context.Context, args []string, env *Environment) error {
	s, err := newSession(cmdHTML, args, env)
	if err != nil {
		return err
	}

	start := env.Now()
	res, err := s.converter.RenderHTML(ctx, s.input)
	if err != nil {
		return err
	}

	out := resolveOutputPath(s.inputPath, s.flags.output, s.cfg.Output.DefaultDir, ".html")
	if err := writeOutput(out, []byte(res.HTML), env); err != nil {
		return err
	}

	s.log.Debug().Dur("elapsed", env.Now().Sub(start)).Msg("rendered")
	if out != stdoutPath {
		s.log.Info().
			Int("issue", res.Issue.Number).
			Int("stories", len(res.Issue.Stories)).
			Str("output", out).
			Msg("created preview")
	}
	return nil
}
