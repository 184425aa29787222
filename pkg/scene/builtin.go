package scene

import (
	"math"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/optics"
)

// Model-scale distances used by the built-in scenes
const (
	interfaceLaserDistance = 8.125e-6
	prismLaserDistance     = 1.5e-5
	sensorDistance         = 8e-6
	sensorRadius           = 1.3e-6
)

// builtinScene describes a scene that needs no file
type builtinScene struct {
	info  SceneInfo
	build func() (*Scene, error)
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{ID: "intro", Name: "Intro", Description: "Laser at 45° from air into water with the intensity meter in the beam"},
		build: NewIntroScene,
	},
	{
		info: SceneInfo{ID: "more-tools", Name: "More Tools", Description: "Wave beam from air into glass"},
		build: NewMoreToolsScene,
	},
	{
		info: SceneInfo{ID: "prism-break", Name: "Prism Break", Description: "White light dispersed by a triangular prism"},
		build: NewPrismBreakScene,
	},
	{
		info: SceneInfo{ID: "prisms", Name: "Prisms", Description: "Triangle, semicircle and circle with reflections"},
		build: NewPrismsScene,
	},
	{
		info: SceneInfo{ID: "many-rays", Name: "Many Rays", Description: "Fan of parallel rays through a square"},
		build: NewManyRaysScene,
	},
}

// NewIntroScene shines a red laser at 45° from air into water. The intensity
// meter sits on the transmitted ray.
func NewIntroScene() (*Scene, error) {
	pivot := core.Vec2{}
	mode, err := NewInterfaceMode(pivot, optics.Air, optics.Water)
	if err != nil {
		return nil, err
	}

	laser := NewLaser(pivot, interfaceLaserDistance, 3*math.Pi/4)

	n1 := mode.Top.IndexAt(laser.Wavelength)
	n2 := mode.Bottom.IndexAt(laser.Wavelength)
	theta2 := optics.RefractionAngle(n1, n2, math.Pi/4)

	return &Scene{
		Laser: laser,
		Mode:  mode,
		Sensor: &IntensityMeter{
			Position: core.NewVec2(sensorDistance*math.Sin(theta2), -sensorDistance*math.Cos(theta2)),
			Radius:   sensorRadius,
		},
		Config: Config{ShowReflections: true},
	}, nil
}

// NewMoreToolsScene shows a wave beam crossing from air into glass
func NewMoreToolsScene() (*Scene, error) {
	pivot := core.Vec2{}
	mode, err := NewInterfaceMode(pivot, optics.Air, optics.Glass)
	if err != nil {
		return nil, err
	}

	laser := NewLaser(pivot, interfaceLaserDistance, 3*math.Pi/4)
	laser.Beam = WaveBeam

	return &Scene{
		Laser:  laser,
		Mode:   mode,
		Config: Config{ShowReflections: true},
	}, nil
}

// NewPrismBreakScene sends white light through a glass triangle
func NewPrismBreakScene() (*Scene, error) {
	triangle, err := NewPrism(Triangle)
	if err != nil {
		return nil, err
	}
	mode, err := NewPrismMode([]Prism{triangle}, optics.Air, optics.Glass)
	if err != nil {
		return nil, err
	}

	laser := NewLaser(core.Vec2{}, prismLaserDistance, math.Pi)
	laser.Color = White

	return &Scene{Laser: laser, Mode: mode}, nil
}

// NewPrismsScene lines up one of each curved and flat prism along the beam
func NewPrismsScene() (*Scene, error) {
	var prisms []Prism
	for i, kind := range []PrismKind{Triangle, SemiCircle, Circle} {
		p, err := NewPrism(kind)
		if err != nil {
			return nil, err
		}
		prisms = append(prisms, p.Translated(float64(i)*1.5*PrismSize, 0))
	}
	prisms[1] = prisms[1].Rotated(math.Pi / 2)

	mode, err := NewPrismMode(prisms, optics.Air, optics.Glass)
	if err != nil {
		return nil, err
	}

	laser := NewLaser(core.NewVec2(0, core.CharacteristicLength), prismLaserDistance, math.Pi)

	return &Scene{
		Laser:  laser,
		Mode:   mode,
		Config: Config{ShowReflections: true, ShowNormals: true},
	}, nil
}

// NewManyRaysScene fans five parallel rays through a tilted square
func NewManyRaysScene() (*Scene, error) {
	square, err := NewPrism(Square)
	if err != nil {
		return nil, err
	}
	mode, err := NewPrismMode([]Prism{square.Rotated(math.Pi / 8)}, optics.Air, optics.Glass)
	if err != nil {
		return nil, err
	}

	laser := NewLaser(core.Vec2{}, prismLaserDistance, math.Pi-0.1)

	return &Scene{
		Laser:  laser,
		Mode:   mode,
		Config: Config{ShowReflections: true, ManyRays: true},
	}, nil
}
