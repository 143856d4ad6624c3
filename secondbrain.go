// Package secondbrain provides hover-preview popovers for a knowledge-base
// static site, plus a checker that validates the previews of a built site.
// On hover over an internal link the engine fetches the linked page, renders
// a preview popover near the pointer, and supports recursive previews:
// hovering a link inside a popover opens a nested popover up to a bounded
// depth, with careful lifecycle management across page navigations.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/) or their
// concern (hover/, check/).
package secondbrain
