package web

// Page copy that is not stored in the database.
var (
	HeroTagline = `I build things for the web, the terminal and the shop floor.`

	AboutMe = `I love building software that's both useful and fun, and I'm always curious about how things work
behind the scenes. Most of my projects start with a simple idea and turn into a chance to learn something new,
whether it's exploring a different language, experimenting with tools, or solving tricky problems.`

	ContactBlurb = `My inbox is always open. Whether you have a question or just want to say hi,
I'll try my best to get back to you!`
)

// Section ids rendered on the home page, in document order. The scroll
// controller and the terminal renderer use the same ids.
const (
	SectionHero    = "hero"
	SectionAbout   = "about"
	SectionWork    = "work"
	SectionContact = "contact"
	WorkEndMarker  = "work-end"
)

// NavLink is one sidebar entry.
type NavLink struct {
	Path  string
	Label string
	Icon  string
}

// NavLinks is the sidebar navigation.
var NavLinks = []NavLink{
	{Path: "#" + SectionHero, Label: "Home", Icon: "fa-home"},
	{Path: "#" + SectionAbout, Label: "About", Icon: "fa-user"},
	{Path: "#" + SectionWork, Label: "Projects", Icon: "fa-code"},
	{Path: "#" + SectionContact, Label: "Contact", Icon: "fa-envelope"},
}
