package sfx

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"sync"
	"time"

	"golang.org/x/tools/godoc/vfs"

	"github.com/sndforge/gamesound"
)

// Library holds loaded sound effects and plays them through a System.
// Multiple independent libraries over the same System are fine; asset
// bytes are only decoded when an effect first reaches the buffer pool.
type Library struct {
	mu      sync.RWMutex
	system  *gamesound.System
	effects map[Id]*Sfx
}

func NewLibrary(system *gamesound.System) *Library {
	return &Library{
		system:  system,
		effects: map[Id]*Sfx{},
	}
}

// LoadFolder loads sound effects from a regular folder.
// See Load for more information.
func (l *Library) LoadFolder(folder string) error {
	return l.Load(vfs.OS(folder))
}

// Load loads sound effects from a virtual filesystem. At the root of the
// filesystem there must be a "sfx.json" file referencing the files to be
// loaded. Assets referenced by several variations are read once.
func (l *Library) Load(fileSystem vfs.Opener) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cachedDiskReads := make(map[string][]byte)
	start := time.Now()
	soundEffects, err := loadRegistry(fileSystem, "sfx.json")
	if err != nil {
		return err
	}
	effects := make(map[Id]*Sfx, len(soundEffects))
	for _, e := range soundEffects {
		variations := e.Variations[:0]
		for _, v := range e.Variations {
			format, err := formatForPath(v.Path)
			if err != nil {
				log.Println("Skipping sound effect", v.Path, ":", err.Error())
				continue
			}
			raw, ok := cachedDiskReads[v.Path]
			if !ok {
				raw, err = readFile(fileSystem, v.Path)
				if err != nil {
					log.Println("Failed to read sound effect from disk", v.Path, ":", err.Error())
					continue
				}
				cachedDiskReads[v.Path] = raw
			}
			v.data = raw
			v.format = format
			variations = append(variations, v)
		}
		e.Variations = variations
		effects[e.Id] = e
	}
	l.effects = effects

	log.Printf("Loaded %d sound effects in %.2fs\n", len(effects),
		time.Since(start).Seconds())
	return nil
}

// Play plays the effect centered. Returns false if the id is unknown, the
// effect is throttled, or the system could not start it.
func (l *Library) Play(id Id) bool {
	return l.PlayPanned(id, 0)
}

// PlayPanned plays the effect at the given stereo position, -1..1.
func (l *Library) PlayPanned(id Id, pan float32) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if e, ok := l.effects[id]; ok {
		return e.play(l.system, pan)
	}
	log.Printf("sfx: %s not loaded", id)
	return false
}

func formatForPath(p string) (gamesound.Format, error) {
	switch path.Ext(p) {
	case ".wav":
		return gamesound.FormatWAV, nil
	case ".ogg":
		return gamesound.FormatOggVorbis, nil
	case ".mp3":
		return gamesound.FormatMP3, nil
	case ".voc":
		return gamesound.FormatVOC, nil
	}
	return 0, fmt.Errorf("unsupported sound file extension: %s", p)
}

func readFile(fs vfs.Opener, path string) (data []byte, err error) {
	file, err := fs.Open(path)
	if err != nil {
		return
	}
	data, err = io.ReadAll(file)
	_ = file.Close()
	return
}

func loadRegistry(fs vfs.Opener, path string) (registry []*Sfx, err error) {
	data, err := readFile(fs, path)
	if err != nil {
		err = fmt.Errorf("failed to open %s: %w", path, err)
		return
	}
	err = json.Unmarshal(data, &registry)
	if err != nil {
		err = fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return
}
