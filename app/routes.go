package app

import (
	"net/url"

	"github.com/Guerrilla-Interactive/snip-cli/app/router"
)

const (
	RegisterPath = "/register"
	MyURLsPath   = "/my-urls"
)

// Routes is the application's route table in priority order.
func Routes() []router.Route {
	return []router.Route{
		{Pattern: router.HomePath, View: string(ScreenShortener)},
		{Pattern: "/:shortCode", View: string(ScreenRedirect)},
		{Pattern: "/protected-link/:shortCode", View: string(ScreenProtectedLink)},
		{Pattern: router.LoginPath, View: string(ScreenLogin), GuestOnly: true},
		{Pattern: RegisterPath, View: string(ScreenRegister), GuestOnly: true},
		{Pattern: MyURLsPath, View: string(ScreenMyURLs), RequiresAuth: true},
		{Pattern: router.CatchAll, View: string(ScreenNotFound)},
	}
}

// NewRouteTable validates Routes.
func NewRouteTable() (*router.Table, error) {
	return router.NewTable(Routes()...)
}

// ShortLinkPath is the redirect route of a short code.
func ShortLinkPath(shortCode string) string {
	return "/" + url.PathEscape(shortCode)
}

// ProtectedLinkPath is where a short code that needs a password is unlocked.
func ProtectedLinkPath(shortCode string) string {
	return "/protected-link/" + url.PathEscape(shortCode)
}
