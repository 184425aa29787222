package core

// Physical and model-scale constants shared by the optics packages.
const (
	// SpeedOfLight in vacuum, m/s
	SpeedOfLight = 2.99792458e8

	// RedWavelength is the reference wavelength substances are specified at (650 nm)
	RedWavelength = 650e-9

	// CharacteristicLength sets the scale of scenes, beams and prisms
	CharacteristicLength = RedWavelength

	// MinWavelength and MaxWavelength bound the visible spectrum the laser can emit
	MinWavelength = 380e-9
	MaxWavelength = 700e-9

	// FarDistance is the length of a ray that leaves the scene; "infinite" at model scale
	FarDistance = 1.0

	// Epsilon rejects self-intersections and nudges points across a boundary
	Epsilon = 1e-12
)
