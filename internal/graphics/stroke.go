package graphics

// LineCap defines how line ends are rendered, mirroring the PDF line
// cap styles.
type LineCap int

const (
	// LineCapButt ends exactly at the endpoint.
	LineCapButt LineCap = iota
	// LineCapRound adds a semicircular cap.
	LineCapRound
	// LineCapSquare adds a square cap extending past the endpoint.
	LineCapSquare
)

// LineJoin defines how corners are rendered, mirroring the PDF line
// join styles.
type LineJoin int

const (
	// LineJoinMiter extends lines to form a sharp corner.
	LineJoinMiter LineJoin = iota
	// LineJoinRound rounds the corner.
	LineJoinRound
	// LineJoinBevel cuts off the corner.
	LineJoinBevel
)
