package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	md2mail "github.com/alnah/go-md2mail"
)

// Check statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// checkReport holds everything check found about one issue.
type checkReport struct {
	Status   string        `json:"status"`
	Input    string        `json:"input"`
	Issue    int           `json:"issue,omitempty"`
	Subject  string        `json:"subject,omitempty"`
	Stories  []storyInfo   `json:"stories,omitempty"`
	Images   []imageInfo   `json:"images,omitempty"`
	Warnings []warningInfo `json:"warnings,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type storyInfo struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

type imageInfo struct {
	Src         string `json:"src"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type warningInfo struct {
	Kind    string `json:"kind"`
	Src     string `json:"src,omitempty"`
	Message string `json:"message"`
}

// runCheck parses an issue and dry-runs image inlining without writing
// anything. Advisories do not fail the command; parse and image errors do.
func runCheck(ctx context.Context, args []string, env *Environment) error {
	s, err := newSession(cmdCheck, args, env)
	if err != nil {
		return err
	}

	res, checkErr := s.converter.Check(ctx, s.input)
	report := buildCheckReport(s.inputPath, res, checkErr)

	if s.flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	} else {
		printCheckReport(env.Stdout, report)
	}

	return checkErr
}

// buildCheckReport summarizes a Check result, or the error that stopped it.
func buildCheckReport(input string, res *md2mail.EmailResult, err error) *checkReport {
	report := &checkReport{Status: statusReady, Input: input}

	if err != nil {
		report.Status = statusErrors
		report.Error = err.Error()
		return report
	}

	report.Issue = res.Issue.Number
	report.Subject = res.Subject
	for _, story := range res.Issue.Stories {
		report.Stories = append(report.Stories, storyInfo{Title: story.Title, Link: story.Link})
	}

	// One line per distinct file; repeated references share a Content-ID.
	seen := make(map[string]bool)
	for _, img := range res.Images {
		if seen[img.ContentID] {
			continue
		}
		seen[img.ContentID] = true
		report.Images = append(report.Images, imageInfo{
			Src:         img.Src,
			ContentType: img.ContentType(),
			Size:        len(img.Data),
		})
	}

	for _, w := range res.Warnings {
		report.Warnings = append(report.Warnings, warningInfo{Kind: string(w.Kind), Src: w.Src, Message: w.Message})
	}
	if len(report.Warnings) > 0 {
		report.Status = statusWarnings
	}

	return report
}

// printCheckReport writes the human-readable report.
func printCheckReport(w io.Writer, r *checkReport) {
	fmt.Fprintf(w, "md2mail check %s\n", r.Input)
	fmt.Fprintln(w)

	if r.Error != "" {
		fmt.Fprintln(w, "Errors:")
		fmt.Fprintf(w, "  [ERROR] %s\n", r.Error)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Status: not ready")
		return
	}

	fmt.Fprintln(w, "Issue")
	fmt.Fprintf(w, "  [OK] Number: %d\n", r.Issue)
	fmt.Fprintf(w, "  [OK] Subject: %s\n", r.Subject)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Stories (%d)\n", len(r.Stories))
	for _, s := range r.Stories {
		fmt.Fprintf(w, "  [OK] %s -> %s\n", s.Title, s.Link)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Images (%d)\n", len(r.Images))
	for _, img := range r.Images {
		fmt.Fprintf(w, "  [OK] %s (%s, %d bytes)\n", img.Src, img.ContentType, img.Size)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			if warn.Src != "" {
				fmt.Fprintf(w, "  [WARN] %s: %s: %s\n", warn.Kind, warn.Src, warn.Message)
			} else {
				fmt.Fprintf(w, "  [WARN] %s: %s\n", warn.Kind, warn.Message)
			}
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: ready")
	case statusWarnings:
		fmt.Fprintf(w, "Status: ready with %d warning(s)\n", len(r.Warnings))
	}
}
