package session

// Page is the per-page tag a client announces when it opens a page view.
type Page string

const (
	PageLogin    Page = "login"
	PageSignup   Page = "signup"
	PageReset    Page = "reset"
	PageFeed     Page = "feed"
	PageChat     Page = "chat"
	PageNew      Page = "new"
	PageSettings Page = "settings"
)

const (
	SignInPath  = "/login"
	LandingPath = "/feed"
)

var publicPages = map[Page]bool{
	PageLogin:  true,
	PageSignup: true,
	PageReset:  true,
}

func (p Page) IsPublic() bool {
	return publicPages[p]
}

// Valid reports whether p is a page the route guard knows.
func (p Page) Valid() bool {
	switch p {
	case PageLogin, PageSignup, PageReset, PageFeed, PageChat, PageNew, PageSettings:
		return true
	}
	return false
}

// Decision is what the monitor does with one session event.
// Exactly one of Redirect or Init is meaningful; Init may be empty for pages
// that only show the identity indicator.
type Decision struct {
	Redirect string
	Init     Page
}

// Decide is the route guard. It has no side effects.
func Decide(page Page, id *Identity) Decision {
	if Require(id) != nil {
		if !page.IsPublic() {
			return Decision{Redirect: SignInPath}
		}
		return Decision{}
	}

	if page == PageLogin {
		return Decision{Redirect: LandingPath}
	}

	switch page {
	case PageFeed, PageChat:
		return Decision{Init: page}
	}
	return Decision{}
}
