package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/custodia-labs/ose-migrate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ose-migrate/internal/core/domain"
)

// progressWidth is the rendered width of the progress bar.
const progressWidth = 40

// output renders migration feedback to the console.
type output struct {
	w      io.Writer
	styles *styles.Styles
	bar    progress.Model

	// services holds the last reported state per service.
	services map[string]domain.ServiceState
}

func newOutput(w io.Writer, s *styles.Styles) *output {
	theme := s.Theme()
	return &output{
		w:        w,
		styles:   s,
		services: make(map[string]domain.ServiceState),
		bar: progress.New(
			progress.WithGradient(theme.ProgressStart, theme.ProgressEnd),
			progress.WithWidth(progressWidth),
			progress.WithoutPercentage(),
		),
	}
}

func (o *output) line(format string, args ...any) {
	fmt.Fprintf(o.w, format+"\n", args...)
}

func (o *output) authenticated() {
	o.line("%s", o.styles.Success.Render("Successful authentication"))
}

func (o *output) authenticationFailed() {
	o.line("%s", o.styles.Error.Render("Failed authentication"))
}

// service reports a service transition once per state.
func (o *output) service(name string, state domain.ServiceState) {
	if o.services[name] == state {
		return
	}
	o.services[name] = state

	switch state {
	case domain.ServiceStarting:
		o.line("%s starting...", name)
	case domain.ServiceReady:
		o.line("%s started", name)
	case domain.ServiceFailedToStart:
		o.line("%s", o.styles.Error.Render(name+" failed to start"))
	case domain.ServiceStopped:
		o.line("%s stopped", name)
	}
}

// progress prints one line per processed asset.
func (o *output) progress(p domain.Progress) {
	pct := p.Percent()
	line := fmt.Sprintf("[%s] %.1f%% Asset in migration progress: %s", o.bar.ViewAs(pct), pct*100, p.Name)
	if p.Err != nil {
		line += " " + o.styles.Error.Render("(failed)")
	}
	o.line("%s", line)
}

// summary prints the outcome of a completed run.
func (o *output) summary(r *domain.MigrationReport) {
	total := len(r.Results)
	if total == 0 {
		o.line("%s", o.styles.Warning.Render("No assets to migrate"))
		return
	}

	o.line("%s", o.styles.Success.Render("Migration completed successfully"))
	o.line("Migrated %d of %d assets", r.Succeeded(), total)

	failed := r.Failed()
	if len(failed) == 0 {
		return
	}
	o.line("%s", o.styles.Error.Render(fmt.Sprintf("%d assets failed:", len(failed))))
	for _, f := range failed {
		o.line("  - %s: %v", f.Asset.Name, f.Err)
	}
}
