// Package static embeds the web service's static assets.
package static

import "embed"

// FS holds the embedded static assets served under /static/.
//
//go:embed site.css countdown.js
var FS embed.FS
