package api

import (
	"net/http"

	"go.uber.org/zap"
)

// 10 MB upload cap, matching typical resume sizes with headroom
const maxResumeUploadBytes = 10 << 20

type parseResumeResponse struct {
	Filename string `json:"filename"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
	Text     string `json:"text"`
}

// ParseResumeHandler extracts text from an uploaded resume
// @Summary Parse a resume file
// @Description Accepts PDF, DOCX, DOC, RTF, ODT or TXT and returns the extracted text
// @Tags candidates
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume file"
// @Success 200 {object} parseResumeResponse
// @Failure 400 {object} map[string]string
// @Router /candidates/parse-resume [post]
func (a *API) ParseResumeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResumeUploadBytes)
	if err := r.ParseMultipartForm(maxResumeUploadBytes); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	parsed, err := a.parser.ParseFile(header.Filename, file)
	if err != nil {
		a.logger.Warn("resume parse failed",
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		a.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	a.respondJSON(w, http.StatusOK, parseResumeResponse{
		Filename: parsed.Filename,
		FileType: parsed.FileType,
		FileSize: parsed.FileSize,
		Text:     parsed.Text,
	})
}
