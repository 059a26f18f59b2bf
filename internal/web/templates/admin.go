package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"github.com/dcorpo/intel/internal/brief"
	"github.com/dcorpo/intel/internal/newsroom"
	"github.com/dcorpo/intel/internal/web/routepath"
)

// LoginView carries the admin login page data.
type LoginView struct {
	Email string
	Error string
}

// AdminLogin renders the console login form.
func AdminLogin(view LoginView) templ.Component {
	return component(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="admin-login"><h1>Newsroom Console</h1>
<form method="post" action="%s">`, routepath.AdminLogin); err != nil {
			return err
		}
		if view.Error != "" {
			if _, err := fmt.Fprintf(w, `<p class="form-error" role="alert">%s</p>`, esc(view.Error)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<label>Email<input type="email" name="email" value="%s" required></label>
<label>Password<input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
</section>`, esc(view.Email))
		return err
	})
}

// DashboardView carries the newsroom dashboard data.
type DashboardView struct {
	Dashboard newsroom.Dashboard
	Printer   *message.Printer
}

// AdminDashboard renders the newsroom landing page.
func AdminDashboard(view DashboardView) templ.Component {
	return component(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="admin-dashboard">
<header class="dashboard-head">
<h1>Newsroom</h1>
<form method="post" action="%s"><button type="submit" class="link">Sign out</button></form>
</header>
<p class="stat">Subscribers: <strong>%s</strong></p>
<section class="generate">
<h2>Generate a draft</h2>
<form method="post" action="%s">
<input type="text" name="topic" maxlength="%d" placeholder="Optional topic, e.g. DPDPA enforcement">
<button type="submit">Generate with AI</button>
</form>
</section>`,
			routepath.AdminLogout,
			esc(FormatCount(view.Printer, view.Dashboard.SubscriberCount)),
			routepath.AdminGenerate,
			brief.MaxTopicLength,
		); err != nil {
			return err
		}

		if err := renderBriefList(w, "Live", view.Dashboard.Published); err != nil {
			return err
		}
		if err := renderBriefList(w, "Drafts", view.Dashboard.Drafts); err != nil {
			return err
		}

		if len(view.Dashboard.RecentActivity) > 0 {
			if _, err := io.WriteString(w, `<section class="activity"><h2>Recent activity</h2><ul>`); err != nil {
				return err
			}
			for _, event := range view.Dashboard.RecentActivity {
				label := strings.ReplaceAll(event.Action, "_", " ")
				if _, err := fmt.Fprintf(w, `<li>%s — brief %s · %s</li>`,
					esc(label),
					esc(event.BriefID),
					esc(event.CreatedAt.UTC().Format("2 Jan 15:04")),
				); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul></section>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

func renderBriefList(w io.Writer, heading string, records []brief.Brief) error {
	if _, err := fmt.Fprintf(w, `<section class="brief-list"><h2>%s</h2>`, esc(heading)); err != nil {
		return err
	}
	if len(records) == 0 {
		if _, err := io.WriteString(w, `<p class="empty">Nothing here yet.</p>`); err != nil {
			return err
		}
	} else {
		if _, err := io.WriteString(w, `<ul>`); err != nil {
			return err
		}
		for _, record := range records {
			if _, err := fmt.Fprintf(w, `<li><a href="%s">%s</a> <span class="meta">%s</span></li>`,
				esc(routepath.AdminBriefPath(record.ID)),
				esc(record.Title),
				esc(record.Category),
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
}

// AdminEditor renders the brief editor form.
func AdminEditor(record brief.Brief) templ.Component {
	return component(func(_ context.Context, w io.Writer) error {
		status := "Draft"
		if record.Status == brief.StatusActive {
			status = "Live"
		}
		if _, err := fmt.Fprintf(w, `<section class="admin-editor">
<header><h1>Edit brief</h1><p class="status status-%s">%s</p></header>
<form method="post" action="%s">
<label>Title<input type="text" name="title" value="%s" required></label>
<label>Category<input type="text" name="category" value="%s"></label>
<label>Deep dive<textarea name="deep_dive" rows="16" required>%s</textarea></label>
<label>Fun fact<textarea name="fun_fact" rows="3">%s</textarea></label>
<label>Radar points (one per line)<textarea name="radar_points" rows="%d">%s</textarea></label>
<label>Jargon term<input type="text" name="jargon_term" value="%s"></label>
<label>Jargon definition<textarea name="jargon_def" rows="3">%s</textarea></label>
<label>Social caption<textarea name="social_caption" rows="3">%s</textarea></label>
<label>Cover image URL<input type="text" name="cover_image" value="%s"></label>
<div class="actions">
<button type="submit">Save</button>
<button type="submit" formaction="%s">Save &amp; publish</button>
</div>
</form>`,
			esc(string(record.Status)),
			esc(status),
			esc(routepath.AdminBriefPath(record.ID)),
			esc(record.Title),
			esc(record.Category),
			esc(record.DeepDive),
			esc(record.FunFact),
			brief.MaxRadarPoints,
			esc(strings.Join(record.RadarPoints, "\n")),
			esc(record.JargonTerm),
			esc(record.JargonDef),
			esc(record.SocialCaption),
			esc(record.CoverImage),
			esc(routepath.AdminBriefPath(record.ID)+"/publish"),
		); err != nil {
			return err
		}

		if record.Status == brief.StatusActive {
			if _, err := fmt.Fprintf(w, `<form method="post" action="%s"><button type="submit">Unpublish</button></form>`,
				esc(routepath.AdminBriefPath(record.ID)+"/unpublish")); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, `<form method="post" action="%s" class="danger">
<label class="confirm"><input type="checkbox" name="confirm" value="yes"> I understand this permanently deletes the brief.</label>
<button type="submit">Delete</button>
</form>
</section>`, esc(routepath.AdminBriefPath(record.ID)+"/delete"))
		return err
	})
}
