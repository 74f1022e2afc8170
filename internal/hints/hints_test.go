package hints

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		paths       []string
		wantContain []string
	}{
		{
			name:        "no searched paths",
			paths:       nil,
			wantContain: []string{"hint:", "--config"},
		},
		{
			name:        "suggests user config path",
			paths:       []string{"news.yaml", "/home/u/.config/go-md2mail/news.yaml"},
			wantContain: []string{"--config", "or create /home/u/.config/go-md2mail/news.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForConfigNotFound(tt.paths)
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("ForConfigNotFound() = %q, want it to contain %q", got, want)
				}
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
	got := ForStyleNotFound([]string{"default", "plain"})
	if got != "\n  hint: available: default, plain" {
		t.Errorf("ForStyleNotFound() = %q", got)
	}
}

func TestForMissingLink(t *testing.T) {
	t.Parallel()

	if got := ForMissingLink("Security Tip"); !strings.Contains(got, `"Security Tip"`) {
		t.Errorf("ForMissingLink() = %q, want story name", got)
	}
	if got := ForMissingLink(""); !strings.Contains(got, "each story") {
		t.Errorf("ForMissingLink(\"\") = %q", got)
	}
}

func TestHintsFormatting(t *testing.T) {
	t.Parallel()

	for name, got := range map[string]string{
		"ForOutputDirectory": ForOutputDirectory(),
		"ForIssueLayout":     ForIssueLayout(),
		"ForImageExtension":  ForImageExtension("photo"),
	} {
		if !strings.HasPrefix(got, "\n  hint: ") {
			t.Errorf("%s() = %q, want hint prefix", name, got)
		}
	}
}
