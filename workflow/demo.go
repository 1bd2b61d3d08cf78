package workflow

import (
	"github.com/yuezhaodesign/Inkspire/library"
)

// DemoCourse is a ready-made course for trying the workflow without any
// uploaded materials.
const DemoCourse = "reading-apprenticeship-demo"

const demoFrameworkOverview = `Reading Apprenticeship is a professional development program that focuses on improving
adolescent literacy across subject areas. The framework consists of four dimensions:

Social Dimension: Creating a safe environment for students to share their reading processes,
discuss comprehension challenges, and learn from each other's strategies.

Personal Dimension: Helping students develop reading identities, connect texts to their
experiences, and build confidence as readers.

Cognitive Dimension: Making visible the mental processes involved in reading comprehension,
including metacognitive strategies and problem-solving approaches.

Knowledge-Building Dimension: Developing subject-area knowledge and understanding how
knowledge shapes reading comprehension in different disciplines.`

type docAdder interface {
	Add(key string, doc library.Document) (library.Document, error)
	Load(key string) ([]library.Document, error)
}

// SeedDemoCourse fills the demo course with the RA framework overview.
// Courses that already hold documents are left alone.
func SeedDemoCourse(store docAdder) error {
	docs, err := store.Load(DemoCourse)
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		return nil
	}

	_, err = store.Add(DemoCourse, library.Document{
		Title:   "Reading Apprenticeship Framework Overview",
		Content: demoFrameworkOverview,
		Author:  "WestEd Reading Apprenticeship",
		Type:    "framework_guide",
	})

	return err
}
