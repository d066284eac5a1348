package sfx

import (
	"math/rand/v2"
	"time"

	"github.com/sndforge/gamesound"
)

// Id identifies a sound effect loaded into a Library.
type Id string

// Sfx is one named effect with one or more interchangeable variations.
// Playing an Sfx picks a variation weighted by probability, subject to
// per-effect and per-variation throttling windows.
type Sfx struct {
	Id           Id
	Volume       float32
	ThrottlingMs int
	Variations   []*Variant
	lastPlayed   time.Time
}

// Variant is one concrete asset of an effect.
type Variant struct {
	Path         string
	Probability  float64
	Volume       float32
	ThrottlingMs int

	data       []byte
	format     gamesound.Format
	lastPlayed time.Time
}

func (e *Sfx) play(system *gamesound.System, pan float32) bool {
	if len(e.Variations) == 0 {
		return false
	}

	if time.Since(e.lastPlayed) <= time.Duration(e.ThrottlingMs)*time.Millisecond {
		return false
	}
	unThrottled := make([]*Variant, 0, len(e.Variations))
	probabilitySum := 0.0
	for _, v := range e.Variations {
		if time.Since(v.lastPlayed) > time.Duration(v.ThrottlingMs)*time.Millisecond {
			unThrottled = append(unThrottled, v)
			probabilitySum += v.Probability
		}
	}
	if len(unThrottled) == 0 {
		return false
	}
	random := rand.Float64() * probabilitySum

	for _, v := range unThrottled {
		if random <= v.Probability+0.001 {
			if v.play(system, e.Volume, pan) {
				e.lastPlayed = time.Now()
				return true
			}
			return false
		}
		random -= v.Probability
	}
	return false
}

func (v *Variant) play(system *gamesound.System, effectVolume float32, pan float32) bool {
	ok := system.PlayOneShot(v.Path, v.data, v.format, &gamesound.Info{
		Volume: effectVolume * v.Volume,
		Pan:    pan,
	})
	if ok {
		v.lastPlayed = time.Now()
	}
	return ok
}
