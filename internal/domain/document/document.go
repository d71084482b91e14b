// Package document defines the judgment document and corpus value objects,
// and the judicial instance detection rules.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// Instance is the level of court that issued a judgment.
type Instance string

const (
	// InstanceTS is the Tribunal Supremo, the highest court.
	InstanceTS Instance = "ts"
	// InstanceTSJ is a Tribunal Superior de Justicia, a regional high court.
	InstanceTSJ Instance = "tsj"
	// InstanceOther is any other issuing body.
	InstanceOther Instance = "otra"
)

// String returns the instance identifier.
func (i Instance) String() string { return string(i) }

// Document is a single judgment text under analysis.
type Document struct {
	ID       common.ID `json:"id"`
	Name     string    `json:"name"`
	Content  string    `json:"content"`
	Instance Instance  `json:"instance"`
	Size     int64     `json:"size"`
	Hash     string    `json:"hash"`
}

// NewDocument builds a Document from a filename and its content, detecting
// the instance and computing the content hash.
func NewDocument(name, content string) Document {
	return Document{
		ID:       common.NewID(),
		Name:     name,
		Content:  content,
		Instance: DetectInstance(name, content),
		Size:     int64(len(content)),
		Hash:     ContentHash(content),
	}
}

// ContentHash returns the hex-encoded sha256 of content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Corpus is a named collection of documents analysed together.
type Corpus struct {
	common.BaseEntity
	Name      string     `json:"name"`
	Documents []Document `json:"documents"`
}

// NewCorpus creates an empty corpus with a fresh ID.
func NewCorpus(name string) *Corpus {
	now := time.Now().UTC()
	return &Corpus{
		BaseEntity: common.BaseEntity{ID: common.NewID(), CreatedAt: now, UpdatedAt: now},
		Name:       name,
	}
}

// Add appends a document built from name and content.
func (c *Corpus) Add(name, content string) Document {
	doc := NewDocument(name, content)
	c.Documents = append(c.Documents, doc)
	c.Touch()
	return doc
}

// Hash returns a stable hash over the corpus content, used as the cache key
// for analysis results.  It covers document hashes only, so renaming the
// corpus does not invalidate cached results.
func (c *Corpus) Hash() string {
	h := sha256.New()
	for _, d := range c.Documents {
		h.Write([]byte(d.Hash))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// InstanceTally counts documents per judicial instance.
type InstanceTally struct {
	TS    int `json:"ts"`
	TSJ   int `json:"tsj"`
	Other int `json:"other"`
}

// Total returns the number of tallied documents.
func (t InstanceTally) Total() int {
	return t.TS + t.TSJ + t.Other
}

// Add increments the counter for the given instance.
func (t *InstanceTally) Add(i Instance) {
	switch i {
	case InstanceTS:
		t.TS++
	case InstanceTSJ:
		t.TSJ++
	default:
		t.Other++
	}
}

// Tally builds an InstanceTally over docs.
func Tally(docs []Document) InstanceTally {
	var t InstanceTally
	for _, d := range docs {
		t.Add(d.Instance)
	}
	return t
}

// ─────────────────────────────────────────────────────────────────────────────
// Instance detection
// ─────────────────────────────────────────────────────────────────────────────

// Filename markers checked before falling back to content inspection.
// Separator variants cover the naming conventions seen in court archives
// ("STS_1234.txt", "sts-2020-451.txt", "tribunal_supremo ...").
var (
	tsNameMarkers = []string{
		"sts_", "sts-", "sts ",
		"tribunal_supremo", "tribunal-supremo",
	}
	tsjNameMarkers = []string{
		"tsj_", "tsj-", "tsj ",
		"tribunal_superior", "tribunal-superior",
	}
)

// DetectInstance determines the judicial instance of a document.  The
// filename is the primary signal; document content is only consulted when
// the name is inconclusive.
func DetectInstance(name, content string) Instance {
	if inst, ok := detectByName(name); ok {
		return inst
	}
	return detectByContent(content)
}

// detectByName applies the filename fast path.  The boolean result reports
// whether the name carried a usable signal.
func detectByName(name string) (Instance, bool) {
	n := strings.ToLower(name)
	for _, marker := range tsNameMarkers {
		if strings.Contains(n, marker) {
			return InstanceTS, true
		}
	}
	for _, marker := range tsjNameMarkers {
		if strings.Contains(n, marker) {
			return InstanceTSJ, true
		}
	}
	return InstanceOther, false
}

// detectByContent inspects the document text.  "tribunal supremo" wins over
// the TSJ markers so that appeal judgments quoting the regional court are
// still attributed to the Supreme Court.
func detectByContent(content string) Instance {
	c := strings.ToLower(content)
	if strings.Contains(c, "tribunal supremo") {
		return InstanceTS
	}
	if strings.Contains(c, "tribunal superior de justicia") || strings.Contains(c, "tsj") {
		return InstanceTSJ
	}
	return InstanceOther
}
