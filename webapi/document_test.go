package webapi

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/osuhe/remesas/pkg/domain"
	"github.com/osuhe/remesas/pkg/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DocumentHandlerTestSuite struct {
	WebAPITestSuite
}

func uploadBody(txID, fileName string) string {
	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	return fmt.Sprintf(
		`{"transactionId":%q,"fileName":%q,"dataUri":"data:image/png;base64,%s"}`,
		txID, fileName, payload,
	)
}

func (s *DocumentHandlerTestSuite) TestUploadDocument() {
	publicURL := "https://project.supabase.co/storage/v1/object/public/documentos/T1/doc_1.png"
	s.store.On("EnsureBucket", mock.Anything, "documentos").Return(nil).Once()
	s.store.On("Upload", mock.Anything, "documentos", mock.AnythingOfType("string"), []byte("fake png bytes"),
		storage.UploadOptions{ContentType: "image/png"}).
		Return("documentos/T1/doc_1.png", nil).Once()
	s.store.On("PublicURL", "documentos", mock.AnythingOfType("string")).Return(publicURL).Once()

	resp := s.makeRequest("POST", "/documents", uploadBody("T1", "cedula.png"), "")
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusOK, resp.StatusCode)
	var body struct {
		Success  bool   `json:"success"`
		URL      string `json:"url"`
		FileName string `json:"fileName"`
		Fallback bool   `json:"fallback"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.True(body.Success)
	s.Equal(publicURL, body.URL)
	s.Equal("cedula.png", body.FileName)
	s.False(body.Fallback)

	// The stored key is scoped to the transaction and timestamped.
	keyArg := s.store.Calls[1].Arguments.String(2)
	s.Regexp(regexp.MustCompile(`^T1/doc_\d+\.png$`), keyArg)
}

func (s *DocumentHandlerTestSuite) TestUploadDocumentStorageDownFallsBack() {
	s.store.On("EnsureBucket", mock.Anything, "documentos").
		Return(fmt.Errorf("%w: connect timeout", domain.ErrStorageUnavailable)).Once()

	resp := s.makeRequest("POST", "/documents", uploadBody("T2", "pasaporte.jpg"), "")
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusOK, resp.StatusCode)
	var body struct {
		Success  bool   `json:"success"`
		URL      string `json:"url"`
		FileName string `json:"fileName"`
		Fallback bool   `json:"fallback"`
		Reason   string `json:"reason"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.True(body.Success)
	s.True(body.Fallback)
	s.Contains(body.URL, "via.placeholder.com")
	s.Equal("fallback_pasaporte.jpg", body.FileName)
	s.NotEmpty(body.Reason)
}

func (s *DocumentHandlerTestSuite) TestUploadDocumentValidation() {
	testCases := []struct {
		desc string
		body string
	}{
		{desc: "missing transaction id", body: `{"fileName":"a.png","dataUri":"data:image/png;base64,aGk="}`},
		{desc: "missing file name", body: `{"transactionId":"T1","dataUri":"data:image/png;base64,aGk="}`},
		{desc: "missing payload", body: `{"transactionId":"T1","fileName":"a.png"}`},
	}
	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			resp := s.makeRequest("POST", "/documents", tc.body, "")
			defer resp.Body.Close() //nolint:errcheck
			s.Equal(fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func (s *DocumentHandlerTestSuite) TestUploadDocumentBadBase64() {
	body := `{"transactionId":"T1","fileName":"a.png","dataUri":"data:image/png;base64,%%%not-base64%%%"}`
	resp := s.makeRequest("POST", "/documents", body, "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *DocumentHandlerTestSuite) TestReplaceDocumentAllowsOverwrite() {
	s.store.On("EnsureBucket", mock.Anything, "documentos").Return(nil).Once()
	s.store.On("Upload", mock.Anything, "documentos", mock.AnythingOfType("string"), []byte("fake png bytes"),
		storage.UploadOptions{ContentType: "image/png", Overwrite: true}).
		Return("documentos/T1/doc_2.png", nil).Once()
	s.store.On("PublicURL", "documentos", mock.AnythingOfType("string")).
		Return("https://project.supabase.co/storage/v1/object/public/documentos/T1/doc_2.png").Once()

	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	body := fmt.Sprintf(
		`{"transactionId":"T1","fileName":"cedula.png","dataUri":"data:image/png;base64,%s","replace":true}`,
		payload,
	)
	resp := s.makeRequest("POST", "/documents", body, "")
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.store.AssertExpectations(s.T())
}

func (s *DocumentHandlerTestSuite) TestDeleteDocument() {
	s.store.On("RemoveObjects", mock.Anything, "documentos", []string{"T1/doc_1.png"}).
		Return([]string{"T1/doc_1.png"}, nil).Once()

	resp := s.makeRequest("POST", "/documents/delete", `{"fileName":"T1/doc_1.png"}`, testAdminToken)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
}

func (s *DocumentHandlerTestSuite) TestDeleteDocumentNotFound() {
	s.store.On("RemoveObjects", mock.Anything, "documentos", []string{"T1/missing.png"}).
		Return([]string{}, nil).Once()

	resp := s.makeRequest("POST", "/documents/delete", `{"fileName":"T1/missing.png"}`, testAdminToken)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *DocumentHandlerTestSuite) TestListStorage() {
	s.store.On("ListObjects", mock.Anything, "documentos", "", 100, 0).
		Return([]domain.StoredObject{
			{Name: "T1/doc_2.png", Size: 2048, CreatedAt: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
			{Name: "T1/doc_1.png", Size: 1024, CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		}, nil).Once()

	resp := s.makeRequest("GET", "/admin/storage", "", testAdminToken)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusOK, resp.StatusCode)
	var body struct {
		Success bool                  `json:"success"`
		Count   int                   `json:"count"`
		Files   []domain.StoredObject `json:"files"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.True(body.Success)
	s.Equal(2, body.Count)
	s.Require().Len(body.Files, 2)
	s.Equal("T1/doc_2.png", body.Files[0].Name)
}

func (s *DocumentHandlerTestSuite) TestListStorageBackendDown() {
	s.store.On("ListObjects", mock.Anything, "documentos", "", 100, 0).
		Return(nil, fmt.Errorf("%w: connect timeout", domain.ErrStorageUnavailable)).Once()

	resp := s.makeRequest("GET", "/admin/storage", "", testAdminToken)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestDocumentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentHandlerTestSuite))
}
