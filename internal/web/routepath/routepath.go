// Package routepath centralizes route literals for the web service.
package routepath

// Public site.
const (
	Root        = "/"
	Archive     = "/archive"
	BriefDetail = "/briefs/{id}"
	Estimate    = "/estimate"
	Health      = "/healthz"
	Subscribe   = "/subscribe"
)

// Admin console.
const (
	Admin               = "/admin"
	AdminLogin          = "/admin/login"
	AdminLogout         = "/admin/logout"
	AdminGenerate       = "/admin/briefs/generate"
	AdminBrief          = "/admin/briefs/{id}"
	AdminBriefPublish   = "/admin/briefs/{id}/publish"
	AdminBriefUnpublish = "/admin/briefs/{id}/unpublish"
	AdminBriefDelete    = "/admin/briefs/{id}/delete"
	AdminGenerateAPI    = "/admin/api/briefs/generate"
)

// BriefPath returns the public detail path for a brief id.
func BriefPath(id string) string {
	return "/briefs/" + id
}

// AdminBriefPath returns the editor path for a brief id.
func AdminBriefPath(id string) string {
	return "/admin/briefs/" + id
}
