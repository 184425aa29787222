package scene

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/optics"
)

// ErrUnknownScene is returned when a scene name matches neither a built-in scene nor a file
var ErrUnknownScene = errors.New("unknown scene")

// sceneFile is the on-disk YAML layout. JSON documents parse the same way.
type sceneFile struct {
	Mode        string      `yaml:"mode"`
	Laser       laserFile   `yaml:"laser"`
	Top         *mediumFile `yaml:"top"`
	Bottom      *mediumFile `yaml:"bottom"`
	Environment *mediumFile `yaml:"environment"`
	PrismMedium *mediumFile `yaml:"prismMedium"`
	Prisms      []prismFile `yaml:"prisms"`
	Sensor      *sensorFile `yaml:"sensor"`
	Config      Config      `yaml:"config"`
}

type laserFile struct {
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	PivotX       float64 `yaml:"pivotX"`
	PivotY       float64 `yaml:"pivotY"`
	WavelengthNm float64 `yaml:"wavelengthNm"`
	On           *bool   `yaml:"on"`
	Beam         string  `yaml:"beam"`
	Color        string  `yaml:"color"`
}

type mediumFile struct {
	Substance string  `yaml:"substance"`
	Index     float64 `yaml:"index"`
}

type prismFile struct {
	Kind        string      `yaml:"kind"`
	X           float64     `yaml:"x"`
	Y           float64     `yaml:"y"`
	RotationDeg float64     `yaml:"rotationDeg"`
	Vertices    [][]float64 `yaml:"vertices"`
}

type sensorFile struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// LoadFile reads and validates a YAML scene file
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scene %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return s, nil
}

// Parse decodes a YAML (or JSON) scene document and validates it
func Parse(data []byte) (*Scene, error) {
	var file sceneFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrInvalidScene, "empty scene document")
		}
		return nil, errors.Wrapf(ErrInvalidScene, "decoding scene: %v", err)
	}
	s, err := file.build()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (f sceneFile) build() (*Scene, error) {
	laser, err := f.Laser.build()
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidScene, "laser: %v", err)
	}

	s := &Scene{Laser: laser, Config: f.Config}

	switch strings.ToLower(f.Mode) {
	case "interface", "":
		top, err := f.Top.substance(optics.Air)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScene, "top: %v", err)
		}
		bottom, err := f.Bottom.substance(optics.Water)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScene, "bottom: %v", err)
		}
		mode, err := NewInterfaceMode(laser.Pivot, top, bottom)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScene, "%v", err)
		}
		s.Mode = mode

	case "prisms", "prism":
		environment, err := f.Environment.substance(optics.Air)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScene, "environment: %v", err)
		}
		prismSubstance, err := f.PrismMedium.substance(optics.Glass)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScene, "prism medium: %v", err)
		}
		prisms := make([]Prism, 0, len(f.Prisms))
		for i, pf := range f.Prisms {
			p, err := pf.build()
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidScene, "prism %d: %v", i, err)
			}
			prisms = append(prisms, p)
		}
		mode, err := NewPrismMode(prisms, environment, prismSubstance)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScene, "%v", err)
		}
		s.Mode = mode

	default:
		return nil, errors.Wrapf(ErrInvalidScene, "unknown mode %q", f.Mode)
	}

	if f.Sensor != nil {
		s.Sensor = &IntensityMeter{
			Position: core.NewVec2(f.Sensor.X, f.Sensor.Y),
			Radius:   f.Sensor.Radius,
		}
	}
	return s, nil
}

func (f laserFile) build() (Laser, error) {
	beam, err := ParseBeamMode(f.Beam)
	if err != nil {
		return Laser{}, err
	}
	colorMode, err := ParseColorMode(f.Color)
	if err != nil {
		return Laser{}, err
	}

	wavelength := core.RedWavelength
	if f.WavelengthNm != 0 {
		wavelength = f.WavelengthNm * 1e-9
	}
	on := true
	if f.On != nil {
		on = *f.On
	}

	return Laser{
		Position:   core.NewVec2(f.X, f.Y),
		Pivot:      core.NewVec2(f.PivotX, f.PivotY),
		Wavelength: wavelength,
		On:         on,
		Beam:       beam,
		Color:      colorMode,
	}, nil
}

// substance resolves a catalog name or a custom index. A missing entry
// falls back to def.
func (f *mediumFile) substance(def optics.Substance) (optics.Substance, error) {
	if f == nil {
		return def, nil
	}
	name := strings.TrimSpace(f.Substance)
	if name == "" || strings.EqualFold(name, "custom") {
		if f.Index == 0 {
			if name == "" {
				return def, nil
			}
			return optics.Substance{}, errors.New("custom substance needs an index")
		}
		return optics.NewCustomSubstance(f.Index)
	}
	if f.Index != 0 {
		return optics.Substance{}, errors.Errorf("substance %q cannot also set an index", name)
	}
	s, ok := optics.SubstanceByName(name)
	if !ok {
		return optics.Substance{}, errors.Errorf("unknown substance %q", name)
	}
	return s, nil
}

func (f prismFile) build() (Prism, error) {
	kind, err := ParsePrismKind(f.Kind)
	if err != nil {
		return Prism{}, err
	}

	var p Prism
	if kind == Custom {
		vertices := make([]core.Vec2, len(f.Vertices))
		for i, v := range f.Vertices {
			if len(v) != 2 {
				return Prism{}, errors.Errorf("vertex %d needs 2 coordinates, got %d", i, len(v))
			}
			vertices[i] = core.NewVec2(v[0], v[1])
		}
		p, err = NewCustomPrism(vertices)
	} else {
		if len(f.Vertices) > 0 {
			return Prism{}, errors.Errorf("%s prism cannot take vertices", kind)
		}
		p, err = NewPrism(kind)
	}
	if err != nil {
		return Prism{}, err
	}
	return p.Translated(f.X, f.Y).Rotated(f.RotationDeg * math.Pi / 180), nil
}

// Lookup resolves a scene by built-in ID, by the name of a YAML file in the
// scenes directory, or by file path
func Lookup(name string) (*Scene, error) {
	s, err := LookupNamed(name)
	if err == nil || !errors.Is(err, ErrUnknownScene) {
		return s, err
	}
	if _, statErr := os.Stat(name); statErr == nil {
		return LoadFile(name)
	}
	return nil, err
}

// LookupNamed resolves a scene by built-in ID or by the name of a YAML file in
// the scenes directory. Anything that looks like a path is an unknown scene.
func LookupNamed(name string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == name {
			return b.build()
		}
	}

	if !isSceneName(name) {
		return nil, errors.Wrapf(ErrUnknownScene, "%q", name)
	}
	for _, dir := range sceneDirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return LoadFile(path)
			}
		}
	}
	return nil, errors.Wrapf(ErrUnknownScene, "%q", name)
}

// isSceneName reports whether name is a bare file name with no path parts
func isSceneName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00"+string(os.PathSeparator)) && !filepath.IsAbs(name)
}
