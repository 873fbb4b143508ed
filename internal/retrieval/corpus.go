package retrieval

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/aescanero/netqa-router/internal/citation"
)

// Section is one citeable excerpt of a source document
type Section struct {
	DocumentNumber string `yaml:"document_number" json:"document_number"`
	SectionID      string `yaml:"section_id" json:"section_id"`
	Title          string `yaml:"title" json:"title"`
	Text           string `yaml:"text" json:"text"`
	URL            string `yaml:"url,omitempty" json:"url,omitempty"`
}

// Citation returns the citation record for the section
func (s Section) Citation() citation.Citation {
	c := citation.New(s.DocumentNumber, s.SectionID, s.Title)
	if s.URL != "" {
		c.URL = s.URL
	}
	return c
}

// corpusFile is the on-disk layout: documents with nested sections.
type corpusFile struct {
	Documents []struct {
		Number   string `yaml:"number"`
		Title    string `yaml:"title"`
		Sections []struct {
			ID    string `yaml:"id"`
			Title string `yaml:"title"`
			Text  string `yaml:"text"`
			URL   string `yaml:"url"`
		} `yaml:"sections"`
	} `yaml:"documents"`
}

// LoadCorpus reads a YAML corpus file.
func LoadCorpus(path string) ([]Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "retrieval: read corpus %s", path)
	}
	sections, err := ParseCorpus(data)
	if err != nil {
		return nil, eris.Wrapf(err, "retrieval: corpus %s", path)
	}
	return sections, nil
}

// ParseCorpus decodes YAML corpus bytes, preserving document and section
// order. Sections without a document number or id are rejected.
func ParseCorpus(data []byte) ([]Section, error) {
	var f corpusFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "parse corpus")
	}

	var sections []Section
	seen := make(map[string]bool)
	for _, d := range f.Documents {
		if d.Number == "" {
			return nil, eris.New("document without number")
		}
		for _, s := range d.Sections {
			if s.ID == "" {
				return nil, eris.Errorf("document %s: section without id", d.Number)
			}
			key := d.Number + ":" + s.ID
			if seen[key] {
				return nil, eris.Errorf("duplicate section %s", key)
			}
			seen[key] = true
			sections = append(sections, Section{
				DocumentNumber: d.Number,
				SectionID:      s.ID,
				Title:          s.Title,
				Text:           s.Text,
				URL:            s.URL,
			})
		}
	}
	return sections, nil
}
