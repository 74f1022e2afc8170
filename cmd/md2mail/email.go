package main

import (
	"bytes"
	"context"
)

// runEmail renders an issue to a MIME message with its local images
// attached inline. The message goes to stdout unless --output or
// output.defaultDir names a file.
func runEmail(ctx context.Context, args []string, env *Environment) error {
	s, err := newSession(cmdEmail, args, env)
	if err != nil {
		return err
	}

	out := stdoutPath
	if s.flags.output != "" || s.cfg.Output.DefaultDir != "" {
		out = resolveOutputPath(s.inputPath, s.flags.output, s.cfg.Output.DefaultDir, ".eml")
	}

	start := env.Now()
	var buf bytes.Buffer
	res, err := s.converter.RenderEmail(ctx, s.input, &buf)
	if err != nil {
		return err
	}
	logWarnings(s.log, res.Warnings)

	if err := writeOutput(out, buf.Bytes(), env); err != nil {
		return err
	}

	s.log.Debug().
		Dur("elapsed", env.Now().Sub(start)).
		Int("bytes", buf.Len()).
		Msg("message assembled")
	if out != stdoutPath {
		s.log.Info().
			Int("issue", res.Issue.Number).
			Str("subject", res.Subject).
			Int("images", len(res.Images)).
			Str("output", out).
			Msg("created email")
	}
	return nil
}
