package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"github.com/dcorpo/intel/internal/brief"
	"github.com/dcorpo/intel/internal/estimator"
	"github.com/dcorpo/intel/internal/web/routepath"
)

// HomeView carries everything the landing page renders.
type HomeView struct {
	// Brief is the current active brief, nil when nothing is live.
	Brief *brief.Brief
	// NextIssueAt is the deadline the countdown ticks toward.
	NextIssueAt time.Time
	// Estimate seeds the estimator panel before any interaction.
	Estimate estimator.Estimate
	Printer  *message.Printer
}

// Home renders the landing page: hero, bento tiles, estimator, and
// newsletter signup.
func Home(view HomeView) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := renderHero(w, view.Brief); err != nil {
			return err
		}
		if view.Brief != nil {
			if err := renderBento(w, *view.Brief); err != nil {
				return err
			}
		}
		if err := renderEstimatorPanel(ctx, w, view.Estimate, view.Printer); err != nil {
			return err
		}
		if err := renderSignup(w); err != nil {
			return err
		}
		return renderCountdown(w, view.NextIssueAt)
	})
}

func renderHero(w io.Writer, record *brief.Brief) error {
	if record == nil {
		_, err := io.WriteString(w, `<section class="hero"><h1>The weekly brief is in the works.</h1><p>The next issue lands Monday morning. Subscribe below so you never miss it.</p></section>`)
		return err
	}
	if _, err := io.WriteString(w, `<section class="hero">`); err != nil {
		return err
	}
	if record.CoverImage != "" {
		if _, err := fmt.Fprintf(w, `<img class="hero-cover" src="%s" alt="">`, esc(record.CoverImage)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, `<p class="hero-date">%s</p><h1><a href="%s">%s</a></h1><p class="hero-category">%s</p></section>`,
		esc(FormatPublishDate(record.PublishDate)),
		esc(routepath.BriefPath(record.ID)),
		esc(record.Title),
		esc(record.Category),
	)
	return err
}

func renderBento(w io.Writer, record brief.Brief) error {
	if _, err := io.WriteString(w, `<section class="bento">`); err != nil {
		return err
	}

	if _, err := io.WriteString(w, `<article class="tile tile-deep-dive"><h2>Deep Dive</h2>`); err != nil {
		return err
	}
	if err := renderParagraphs(w, record.DeepDive); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `</article>`); err != nil {
		return err
	}

	if record.FunFact != "" {
		if _, err := fmt.Fprintf(w, `<article class="tile tile-fun-fact"><h2>Did You Know?</h2><p>%s</p></article>`, esc(record.FunFact)); err != nil {
			return err
		}
	}

	if len(record.RadarPoints) > 0 {
		if _, err := io.WriteString(w, `<article class="tile tile-radar"><h2>Global Radar</h2><ul>`); err != nil {
			return err
		}
		for _, point := range record.RadarPoints {
			if _, err := fmt.Fprintf(w, `<li>%s</li>`, esc(point)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul></article>`); err != nil {
			return err
		}
	}

	if record.JargonTerm != "" && record.JargonDef != "" {
		if _, err := fmt.Fprintf(w, `<article class="tile tile-jargon"><h2>Jargon Buster</h2><dl><dt>%s</dt><dd>%s</dd></dl></article>`, esc(record.JargonTerm), esc(record.JargonDef)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, `</section>`)
	return err
}

func renderEstimatorPanel(ctx context.Context, w io.Writer, est estimator.Estimate, printer *message.Printer) error {
	_, err := fmt.Fprintf(w, `<section class="tile tile-estimator"><h2>DPDPA Risk Estimator</h2>
<form hx-get="%s" hx-target="#estimate-result" hx-trigger="change, input delay:300ms">
<label for="users">User Data Count</label>
<input type="range" id="users" name="users" min="0" max="1000000" step="1000" value="%d">
</form>
<div id="estimate-result">`, routepath.Estimate, est.Users)
	if err != nil {
		return err
	}
	if err := Estimate(est, printer).Render(ctx, w); err != nil {
		return err
	}
	_, err = io.WriteString(w, `</div></section>`)
	return err
}

// Estimate renders the estimator result fragment.
func Estimate(est estimator.Estimate, printer *message.Printer) templ.Component {
	return component(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p class="risk risk-%s">Risk Level: <strong>%s</strong></p><p class="fine">Potential Fine: <strong>&#8377;%s Cr</strong></p>`,
			esc(string(est.Risk)),
			esc(string(est.Risk)),
			esc(FormatCrore(printer, est.FineCrore)),
		)
		return err
	})
}

func renderSignup(w io.Writer) error {
	_, err := fmt.Fprintf(w, `<section class="tile tile-signup"><h2>Get the brief every Monday</h2>
<form method="post" action="%s">
<input type="email" name="email" placeholder="you@company.in" maxlength="255" required>
<label class="consent"><input type="checkbox" name="consent" value="yes" required> I consent to receive the weekly newsletter.</label>
<button type="submit">Subscribe</button>
</form>
</section>`, routepath.Subscribe)
	return err
}

func renderCountdown(w io.Writer, deadline time.Time) error {
	if deadline.IsZero() {
		return nil
	}
	_, err := fmt.Fprintf(w, `<section class="countdown" data-deadline="%s"><h2>Next issue</h2><p>%s</p></section>`,
		esc(deadline.UTC().Format(time.RFC3339)),
		esc(deadline.Format("Monday, 2 January 2006 at 15:04 MST")),
	)
	return err
}

// MonthGroup is one archive bucket keyed by publish month.
type MonthGroup struct {
	// Key is the YYYY-MM bucket key.
	Key string
	// Label is the human month heading.
	Label  string
	Briefs []brief.Brief
}

// ArchiveView carries the archive page data.
type ArchiveView struct {
	Query  string
	Groups []MonthGroup
}

// Archive renders the archive page grouped by month.
func Archive(view ArchiveView) templ.Component {
	return component(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="archive"><h1>Brief Archive</h1>
<form method="get" action="%s" class="archive-search">
<input type="search" name="q" value="%s" placeholder="Filter by title">
<button type="submit">Search</button>
</form>`, routepath.Archive, esc(view.Query)); err != nil {
			return err
		}
		if len(view.Groups) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No published briefs match.</p>`); err != nil {
				return err
			}
		}
		for _, group := range view.Groups {
			if _, err := fmt.Fprintf(w, `<h2 id="month-%s">%s</h2><ul class="archive-list">`, esc(group.Key), esc(group.Label)); err != nil {
				return err
			}
			for _, record := range group.Briefs {
				if _, err := fmt.Fprintf(w, `<li><a href="%s">%s</a> <span class="meta">%s · %s</span></li>`,
					esc(routepath.BriefPath(record.ID)),
					esc(record.Title),
					esc(record.Category),
					esc(FormatPublishDate(record.PublishDate)),
				); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// BriefDetail renders a published brief's standalone page.
func BriefDetail(record brief.Brief) templ.Component {
	return component(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<article class="brief-detail"><p class="meta">%s · %s</p><h1>%s</h1>`,
			esc(record.Category),
			esc(FormatPublishDate(record.PublishDate)),
			esc(record.Title),
		); err != nil {
			return err
		}
		if record.CoverImage != "" {
			if _, err := fmt.Fprintf(w, `<img class="cover" src="%s" alt="">`, esc(record.CoverImage)); err != nil {
				return err
			}
		}
		if err := renderBento(w, record); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}
