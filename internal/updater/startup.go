package updater

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// CheckAndPrintBanner prints an update banner from the last recorded check.
// It never blocks; a stale record is refreshed in the background and Wait
// lets the caller give that refresh a moment before exiting.
func (u *Updater) CheckAndPrintBanner(w io.Writer) {
	if IsDevBuild(u.currentVersion) || u.cacheFile == "" {
		return
	}

	last, err := u.lastResult()
	if err != nil {
		u.logger.Debug("ignoring version check record", "err", err)
	}

	// A record written by another version says nothing about this one.
	current := last.describes(u.pkgName, u.currentVersion)
	if current && last.UpdateAvailable() {
		PrintUpdateBanner(w, u.currentVersion, last.Next, u.pkgName)
	}
	if !current || last.stale(time.Now()) {
		u.wg.Add(1)
		go u.refresh()
	}
}

// Wait blocks until background refreshes finish or d elapses.
func (u *Updater) Wait(d time.Duration) {
	done := make(chan struct{})
	go func() {
		u.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
	}
}

func (u *Updater) refresh() {
	defer u.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()
	if _, err := u.Check(ctx); err != nil {
		u.logger.Debug("version check failed", "err", err)
	}
}

// PrintUpdateBanner prints the update notification to w.
func PrintUpdateBanner(w io.Writer, current, latest, pkg string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bannerStyle.Render(fmt.Sprintf("Update available: %s -> %s", current, latest)))
	fmt.Fprintf(w, "    Run %s to upgrade\n\n", commandStyle.Render("npm install -g "+pkg))
}
