package notify

import "github.com/rs/zerolog/log"

// Headless defaults for deployments without a desktop surface: the
// application counts as never visible, permission is pre-granted, and
// notifications land in the log instead of a window manager.

// HiddenVisibility reports the application as never visible.
type HiddenVisibility struct{}

func (HiddenVisibility) Visible() bool { return false }

// GrantedPermissions answers granted without prompting.
type GrantedPermissions struct{}

func (GrantedPermissions) Current() Permission { return PermissionGranted }
func (GrantedPermissions) Request() Permission { return PermissionGranted }

// LogRenderer writes notifications to the structured log.
type LogRenderer struct{}

func (LogRenderer) Show(n Notification) {
	log.Info().Str("module", "notify").Str("tag", n.Tag).Str("title", n.Title).Msg(n.Body)
}

func (LogRenderer) Dismiss(tag string) {
	log.Debug().Str("module", "notify").Str("tag", tag).Msg("notification expired")
}
