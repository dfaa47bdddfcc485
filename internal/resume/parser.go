package resume

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/google/uuid"
)

// Parser extracts plain text from uploaded resume files. Files are staged
// on disk because the document converter works on paths; the staged copy is
// removed once parsed.
type Parser struct {
	uploadsDir string
}

// ParsedResume is the extraction result for one uploaded file.
type ParsedResume struct {
	Filename string
	FileType string
	FileSize int64
	Text     string
}

func NewParser(uploadsDir string) *Parser {
	return &Parser{
		uploadsDir: uploadsDir,
	}
}

// ParseFile extracts text from PDF, DOCX, DOC, RTF, ODT and TXT files.
func (p *Parser) ParseFile(filename string, reader io.Reader) (*ParsedResume, error) {
	fileType := strings.ToLower(filepath.Ext(filename))

	if err := os.MkdirAll(p.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	// stage under a random name so concurrent uploads of the same
	// filename cannot clobber each other
	stagedPath := filepath.Join(p.uploadsDir, uuid.NewString()+fileType)
	file, err := os.Create(stagedPath)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	defer os.Remove(stagedPath)

	size, err := io.Copy(file, reader)
	closeErr := file.Close()
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("save upload: %w", closeErr)
	}

	var text string
	switch fileType {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.ConvertPath(stagedPath)
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		text = res.Body
	case ".txt":
		content, err := os.ReadFile(stagedPath)
		if err != nil {
			return nil, fmt.Errorf("read text file: %w", err)
		}
		text = string(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}

	return &ParsedResume{
		Filename: filename,
		FileType: fileType,
		FileSize: size,
		Text:     strings.TrimSpace(text),
	}, nil
}
