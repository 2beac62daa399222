package domain

import (
	"fmt"
	"github.com/google/uuid"
	"path/filepath"
	"regexp"
	"strconv"
)

type ArtifactLayout struct {
	Root string
}

func NewArtifactLayout(root string) ArtifactLayout {
	return ArtifactLayout{Root: root}
}

func (l ArtifactLayout) Job(requestID uuid.UUID) JobPaths {
	id := requestID.String()
	return JobPaths{
		RequestID: id,
		Dir:       filepath.Join(l.Root, id),
	}
}

// JobPaths derives every artifact location of one job from its directory.
type JobPaths struct {
	RequestID string
	Dir       string
}

func (p JobPaths) SlidesDir() string {
	return filepath.Join(p.Dir, "slides")
}

func (p JobPaths) AudiosDir() string {
	return filepath.Join(p.Dir, "audios")
}

func (p JobPaths) SlidesJSON() string {
	return filepath.Join(p.Dir, "slides.json")
}

func (p JobPaths) SlideHTML(slideID int) string {
	return filepath.Join(p.SlidesDir(), fmt.Sprintf("slide%d.html", slideID))
}

func (p JobPaths) Audio(slideID int) string {
	return filepath.Join(p.AudiosDir(), fmt.Sprintf("audio%d.mp3", slideID))
}

func (p JobPaths) Image(slideID int) string {
	return filepath.Join(p.Dir, fmt.Sprintf("slide%d.png", slideID))
}

func (p JobPaths) Clip(slideID int) string {
	return filepath.Join(p.Dir, fmt.Sprintf("slide%d.mp4", slideID))
}

func (p JobPaths) FinalVideo() string {
	return filepath.Join(p.Dir, p.RequestID+".mp4")
}

func (p JobPaths) PartialVideo() string {
	return filepath.Join(p.Dir, p.RequestID+".partial.mp4")
}

func (p JobPaths) Manifest() string {
	return filepath.Join(p.Dir, "videos.txt")
}

func (p JobPaths) LockFile() string {
	return filepath.Join(p.Dir, ".lock")
}

var (
	transientImagePattern = regexp.MustCompile(`^slide(\d+)\.png$`)
	transientClipPattern  = regexp.MustCompile(`^slide(\d+)\.mp4$`)
	slideHTMLPattern      = regexp.MustCompile(`^slide(\d+)\.html$`)
	audioPattern          = regexp.MustCompile(`^audio(\d+)\.mp3$`)
)

// IsTransient reports whether a file name inside a job directory is an intermediate artifact.
func (p JobPaths) IsTransient(name string) bool {
	switch {
	case transientImagePattern.MatchString(name), transientClipPattern.MatchString(name):
		return true
	case name == filepath.Base(p.PartialVideo()), name == filepath.Base(p.Manifest()):
		return true
	}
	return false
}

func SlideIDFromHTMLName(name string) (int, bool) {
	return matchSlideID(slideHTMLPattern, name)
}

func SlideIDFromAudioName(name string) (int, bool) {
	return matchSlideID(audioPattern, name)
}

func matchSlideID(pattern *regexp.Regexp, name string) (int, bool) {
	m := pattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
