package projectxml

import (
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"cuesheet/internal/classifier"
	"cuesheet/internal/cue"
)

// ErrEmptyProject indicates the container decompressed and scanned cleanly
// but yielded no clip data at all.
var ErrEmptyProject = errors.New("project contains no audio clip data")

// Result is the parser output: aggregated clips plus the filename-to-media
// path map used by the file-metadata enrichment stage.
type Result struct {
	Clips      []cue.RawClip
	MediaPaths map[string]string
	// MalformedTags counts locally-recovered parse errors; surfaced in the
	// import summary, never fatal.
	MalformedTags int
}

// placement is a buffered timeline occurrence awaiting alias resolution.
type placement struct {
	start      int64
	end        int64
	subclipRef string
}

// Parse opens and decompresses the container at path and scans it.
func Parse(projectPath string) (Result, error) {
	f, err := os.Open(projectPath)
	if err != nil {
		return Result{}, fmt.Errorf("open project file: %w", err)
	}
	defer f.Close()
	return ParseStream(f)
}

// ParseStream scans a gzip-compressed project container from r.
func ParseStream(r io.Reader) (Result, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("decompress project: %w", err)
	}
	defer gz.Close()
	return parseXML(gz)
}

type scanState struct {
	stack []string

	// alias graph
	clipNames     map[string]string // Clip object ID -> display name
	subclipToClip map[string]string // SubClip object ID -> Clip object ID

	// object contexts (innermost wins)
	clipIDs    []string
	subclipIDs []string

	// current timeline placement, valid while inside a track item
	inTrackItem bool
	curStart    int64
	curEnd      int64
	curRef      string

	placements []placement
	looseNames map[string]struct{}
	mediaPaths map[string]string

	malformed int
}

func parseXML(r io.Reader) (Result, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose

	st := &scanState{
		clipNames:     map[string]string{},
		subclipToClip: map[string]string{},
		looseNames:    map[string]struct{}{},
		mediaPaths:    map[string]string{},
	}

	var lastOffset int64 = -1
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed tag. Recover and continue unless the decoder is
			// stuck (no input consumed since the last failure).
			st.malformed++
			offset := dec.InputOffset()
			if offset == lastOffset {
				break
			}
			lastOffset = offset
			continue
		}
		st.handleToken(tok)
	}

	if len(st.clipNames) == 0 && len(st.placements) == 0 && len(st.looseNames) == 0 {
		return Result{}, ErrEmptyProject
	}

	return st.resolve(), nil
}

func (st *scanState) handleToken(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		st.startElement(t)
	case xml.EndElement:
		st.endElement(t)
	case xml.CharData:
		st.charData(string(t))
	}
}

func (st *scanState) startElement(el xml.StartElement) {
	name := el.Name.Local
	objectID := attrValue(el, "ObjectID", "ObjectUID")
	objectRef := attrValue(el, "ObjectRef", "ObjectURef")

	switch name {
	case "Clip", "MasterClip", "AudioClip":
		if objectRef != "" {
			// Alias reference from an enclosing SubClip object.
			if sub := st.currentSubclip(); sub != "" {
				st.subclipToClip[sub] = objectRef
			}
		} else if objectID != "" {
			st.clipIDs = append(st.clipIDs, objectID)
		}
	case "SubClip":
		if objectRef != "" {
			if st.inTrackItem {
				st.curRef = objectRef
			}
		} else if objectID != "" {
			st.subclipIDs = append(st.subclipIDs, objectID)
		}
	case "ClipTrackItem", "TrackItem":
		st.inTrackItem = true
		st.curStart, st.curEnd, st.curRef = 0, 0, ""
	}

	// Attribute values can carry filenames too (exporters vary).
	for _, attr := range el.Attr {
		st.collectLooseName(attr.Value)
	}

	st.stack = append(st.stack, name)
}

func (st *scanState) endElement(el xml.EndElement) {
	name := el.Name.Local

	// Pop defensively: mismatched close tags are common in damaged exports.
	for i := len(st.stack) - 1; i >= 0; i-- {
		if st.stack[i] == name {
			st.stack = st.stack[:i]
			break
		}
	}

	switch name {
	case "Clip", "MasterClip", "AudioClip":
		if n := len(st.clipIDs); n > 0 {
			st.clipIDs = st.clipIDs[:n-1]
		}
	case "SubClip":
		if n := len(st.subclipIDs); n > 0 {
			st.subclipIDs = st.subclipIDs[:n-1]
		}
	case "ClipTrackItem", "TrackItem":
		if st.inTrackItem && st.curRef != "" && st.curEnd > st.curStart {
			st.placements = append(st.placements, placement{
				start:      st.curStart,
				end:        st.curEnd,
				subclipRef: st.curRef,
			})
		}
		st.inTrackItem = false
	}
}

func (st *scanState) charData(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	parent := st.parentElement()

	switch parent {
	case "Name", "ClipName":
		if clip := st.currentClip(); clip != "" {
			if _, exists := st.clipNames[clip]; !exists {
				st.clipNames[clip] = text
			}
		}
	case "Start", "InPoint":
		if st.inTrackItem {
			if v, err := strconv.ParseInt(text, 10, 64); err == nil {
				st.curStart = v
			}
		}
	case "End", "OutPoint":
		if st.inTrackItem {
			if v, err := strconv.ParseInt(text, 10, 64); err == nil {
				st.curEnd = v
			}
		}
	case "FilePath", "ActualMediaFilePath", "RelativePath":
		if classifier.HasAudioExtension(text) {
			st.mediaPaths[path.Base(normalizeSlashes(text))] = text
		}
	}

	st.collectLooseName(text)
}

// normalizeSlashes converts Windows separators so path.Base works on either style.
func normalizeSlashes(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func (st *scanState) collectLooseName(value string) {
	value = strings.TrimSpace(value)
	if value == "" || !classifier.HasAudioExtension(value) {
		return
	}
	base := path.Base(normalizeSlashes(value))
	if isJunkName(base) {
		return
	}
	st.looseNames[base] = struct{}{}
}

func (st *scanState) parentElement() string {
	if len(st.stack) == 0 {
		return ""
	}
	return st.stack[len(st.stack)-1]
}

func (st *scanState) currentClip() string {
	if len(st.clipIDs) == 0 {
		return ""
	}
	return st.clipIDs[len(st.clipIDs)-1]
}

func (st *scanState) currentSubclip() string {
	if len(st.subclipIDs) == 0 {
		return ""
	}
	return st.subclipIDs[len(st.subclipIDs)-1]
}

// resolve is the second phase: walk the buffered placements now that the
// alias graph is complete, then fold in loose names that never hit a
// timeline.
func (st *scanState) resolve() Result {
	type agg struct {
		total     int64
		max       int64
		instances int
	}
	byName := map[string]*agg{}

	for _, p := range st.placements {
		clipID, ok := st.subclipToClip[p.subclipRef]
		if !ok {
			// Some exporters reference Clip objects directly.
			clipID = p.subclipRef
		}
		name, ok := st.clipNames[clipID]
		if !ok {
			st.malformed++
			continue
		}
		if isJunkName(name) {
			continue
		}
		duration := p.end - p.start
		a := byName[name]
		if a == nil {
			a = &agg{}
			byName[name] = a
		}
		a.total += duration
		if duration > a.max {
			a.max = duration
		}
		a.instances++
	}

	// Loose harvest keeps clips that were imported but never placed.
	for name := range st.looseNames {
		if _, placed := byName[name]; !placed {
			byName[name] = &agg{}
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	clips := make([]cue.RawClip, 0, len(names))
	for _, name := range names {
		a := byName[name]
		clips = append(clips, cue.RawClip{
			ID:            name,
			OriginalName:  name,
			TotalTicks:    a.total,
			MaxTicks:      a.max,
			InstanceCount: a.instances,
		})
	}

	return Result{
		Clips:         clips,
		MediaPaths:    st.mediaPaths,
		MalformedTags: st.malformed,
	}
}

func attrValue(el xml.StartElement, names ...string) string {
	for _, attr := range el.Attr {
		for _, want := range names {
			if attr.Name.Local == want {
				return strings.TrimSpace(attr.Value)
			}
		}
	}
	return ""
}
