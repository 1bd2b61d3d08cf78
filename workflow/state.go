// Package workflow runs the Reading Apprenticeship generation pipelines: a
// course workflow that turns one reading into RA questions, teacher prompts
// and a quality review, and a pair workflow that scaffolds a primary reading
// against a folder of secondary readings.
package workflow

// Sentinel strings reported in place of retrieval context when the library
// has nothing relevant or cannot be reached. They are part of the output
// contract, not errors.
const (
	NoMaterialsFound     = "No relevant course materials found."
	MaterialsUnavailable = "Error retrieving course materials."
	NoExternalContext    = "No external context."
	PromptsNotFormatted  = "Prompts not properly formatted."
)

// DefaultCourse receives runs that name no course and upload no file.
const DefaultCourse = "default"

// Reading is one full text with its attribution. A primary reading is always
// carried whole; only secondary readings pass through the chunker.
type Reading struct {
	Title   string
	Author  string
	Content string
}

// State carries a run's inputs and every artifact produced so far. Stages
// receive a copy and publish changes through a Delta; fields never regress
// once set.
type State struct {
	// Inputs.
	Input      string
	CourseID   string
	FilePath   string
	ReadingA   Reading
	ReadingB   []Reading
	Objectives []string

	// Artifacts.
	ExtractedInfo   string
	RelevantContext string
	DocumentChunks  []string
	Questions       string
	Prompts         string
	Evaluation      string
	Keywords        string
	KeySentences    string
	Annotations     string
}

// Delta is a stage's partial update. Zero-valued fields leave the state
// untouched.
type Delta struct {
	Input           string
	ExtractedInfo   string
	RelevantContext string
	DocumentChunks  []string
	Questions       string
	Prompts         string
	Evaluation      string
	Keywords        string
	KeySentences    string
	Annotations     string
}

func (s State) merge(d Delta) State {
	if d.Input != "" {
		s.Input = d.Input
	}
	if d.ExtractedInfo != "" {
		s.ExtractedInfo = d.ExtractedInfo
	}
	if d.RelevantContext != "" {
		s.RelevantContext = d.RelevantContext
	}
	if len(d.DocumentChunks) > 0 {
		s.DocumentChunks = d.DocumentChunks
	}
	if d.Questions != "" {
		s.Questions = d.Questions
	}
	if d.Prompts != "" {
		s.Prompts = d.Prompts
	}
	if d.Evaluation != "" {
		s.Evaluation = d.Evaluation
	}
	if d.Keywords != "" {
		s.Keywords = d.Keywords
	}
	if d.KeySentences != "" {
		s.KeySentences = d.KeySentences
	}
	if d.Annotations != "" {
		s.Annotations = d.Annotations
	}

	return s
}
