package game

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tuning holds the knobs for the equity estimator and the scan feed.
// Zero values fall back to the defaults below, so a partial YAML file
// overrides only what it names.
type Tuning struct {
	IterationsBase   uint32  `yaml:"iterationsBase"`
	IterationsMin    uint32  `yaml:"iterationsMin"`
	IterationsMax    uint32  `yaml:"iterationsMax"`
	PlayerExponent   float64 `yaml:"playerExponent"`
	PreflopMult      float64 `yaml:"preflopMult"`
	FlopMult         float64 `yaml:"flopMult"`
	TurnMult         float64 `yaml:"turnMult"`
	RiverMult        float64 `yaml:"riverMult"`
	ScanWaitSec      uint32  `yaml:"scanWaitSec"`
	ScanBufferSize   uint32  `yaml:"scanBufferSize"`
	ScansPerSec      float64 `yaml:"scansPerSec"`
	ScanBurst        uint32  `yaml:"scanBurst"`
	PersistEveryHand bool    `yaml:"persistEveryHand"`
}

// DefaultTuning matches the estimator curve the system was calibrated
// with: about a second of simulation per street on a small host, less
// as more of the board is known.
func DefaultTuning() Tuning {
	return Tuning{
		IterationsBase:   2200,
		IterationsMin:    200,
		IterationsMax:    2000,
		PlayerExponent:   0.9,
		PreflopMult:      1.0,
		FlopMult:         0.75,
		TurnMult:         0.55,
		RiverMult:        0.40,
		ScanWaitSec:      30,
		ScanBufferSize:   52,
		ScansPerSec:      1,
		ScanBurst:        3,
		PersistEveryHand: true,
	}
}

func ParseTuningConfig(tuningFile string) (Tuning, error) {
	bytes, err := ioutil.ReadFile(tuningFile)
	if err != nil {
		return Tuning{}, errors.Wrap(err, fmt.Sprintf("Error reading tuning config file [%s]", tuningFile))
	}

	data := DefaultTuning()
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Tuning{}, errors.Wrap(err, fmt.Sprintf("Error parsing tuning YAML file [%s]", tuningFile))
	}

	if err := data.validate(); err != nil {
		return Tuning{}, err
	}
	return data, nil
}

func (t Tuning) validate() error {
	if t.IterationsMin == 0 || t.IterationsMax < t.IterationsMin {
		return InvalidConfigError{Msg: fmt.Sprintf("iteration bounds are inverted: min %d max %d", t.IterationsMin, t.IterationsMax)}
	}
	if t.PlayerExponent <= 0 {
		return InvalidConfigError{Msg: "playerExponent must be positive"}
	}
	return nil
}

// multiplierFor scales trial counts down as streets reveal more of
// the board.
func (t Tuning) multiplierFor(phase Phase) float64 {
	switch phase {
	case PhasePreflop:
		return t.PreflopMult
	case PhaseFlop:
		return t.FlopMult
	case PhaseTurn:
		return t.TurnMult
	case PhaseRiver:
		return t.RiverMult
	default:
		return 0.6
	}
}
