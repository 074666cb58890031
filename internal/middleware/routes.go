package middleware

import (
	"net/url"
	"strings"
)

// PathClass is the gatekeeper's classification of a request path.
type PathClass int

const (
	// ClassOpen is any path no rule claims. It passes through regardless of
	// auth state, so a new page is public until it is added to Protected.
	ClassOpen PathClass = iota
	ClassAsset
	ClassPublicAPI
	ClassPublicOnly
	ClassProtected
)

func (c PathClass) String() string {
	switch c {
	case ClassAsset:
		return "asset"
	case ClassPublicAPI:
		return "public_api"
	case ClassPublicOnly:
		return "public_only"
	case ClassProtected:
		return "protected"
	default:
		return "open"
	}
}

// Action is what the gatekeeper does with a request.
type Action int

const (
	Continue Action = iota
	RedirectHome
	RedirectSignIn
)

func (a Action) String() string {
	switch a {
	case RedirectHome:
		return "redirect_home"
	case RedirectSignIn:
		return "redirect_sign_in"
	default:
		return "continue"
	}
}

// Decision is the outcome for one request. Target is set for redirects.
type Decision struct {
	Action Action
	Target string
}

const (
	HomePath   = "/"
	SignInPath = "/sign-in"

	CallbackParam = "callbackUrl"
)

// RouteTable lists the path prefixes of each class. A prefix ending in "/"
// matches anything below it; any other prefix matches the path itself and
// its sub-paths, so "/dashboard" covers "/dashboard/orders" but not "/dashboards".
type RouteTable struct {
	Assets     []string
	PublicAPI  []string
	PublicOnly []string
	Protected  []string
}

// DefaultRouteTable returns the clinic's routes.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		Assets: []string{
			"/static/",
			"/images/",
			"/favicon.ico",
			"/robots.txt",
			"/sitemap.xml",
			"/manifest.json",
		},
		PublicAPI: []string{
			"/api/auth",
			"/api/public",
		},
		PublicOnly: []string{
			"/sign-in",
			"/sign-up",
			"/forgot-password",
			"/forget-password",
		},
		Protected: []string{
			"/dashboard",
			"/checkout",
		},
	}
}

type rule struct {
	prefixes []string
	class    PathClass
}

// rules returns the table in evaluation order. Earlier rules win.
func (t RouteTable) rules() []rule {
	return []rule{
		{t.Assets, ClassAsset},
		{t.PublicAPI, ClassPublicAPI},
		{t.PublicOnly, ClassPublicOnly},
		{t.Protected, ClassProtected},
	}
}

// Classify returns the class of the first rule matching path, or ClassOpen.
func (t RouteTable) Classify(path string) PathClass {
	if path == "" {
		path = "/"
	}
	for _, r := range t.rules() {
		for _, prefix := range r.prefixes {
			if matchPrefix(prefix, path) {
				return r.class
			}
		}
	}
	return ClassOpen
}

func matchPrefix(prefix, path string) bool {
	if prefix == "" {
		return false
	}
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(path, prefix)
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// Decide maps a path class and auth state to a decision. It is total and has
// no side effects.
func Decide(class PathClass, authenticated bool, path string) Decision {
	switch class {
	case ClassPublicOnly:
		if authenticated {
			return Decision{Action: RedirectHome, Target: HomePath}
		}
	case ClassProtected:
		if !authenticated {
			return Decision{Action: RedirectSignIn, Target: SignInURL(path)}
		}
	}
	return Decision{Action: Continue}
}

// SignInURL is the sign-in page carrying path as the post-login destination.
func SignInURL(path string) string {
	q := url.Values{}
	q.Set(CallbackParam, path)
	return SignInPath + "?" + q.Encode()
}
