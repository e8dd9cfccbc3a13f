// Package theme holds the color palette shared by every terminal surface.
package theme

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for focused controls, borders
	ColorDanger    = "196" // Red - for errors
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorDim       = "243" // Darker gray - for disabled controls
	ColorWarning   = "208" // Orange - for definitions
	ColorCode      = "180" // Tan - for inline code
)
