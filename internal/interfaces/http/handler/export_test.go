package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/lastikpazari/backend/internal/application/report"
	"github.com/lastikpazari/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisBody() map[string]any {
	return map[string]any{
		"lastikBilgileri": map[string]any{
			"marka":        "Michelin",
			"model":        "Primacy 4",
			"ebat":         "205/55 R16",
			"uretimYili":   2021,
			"disDerinligi": 4.5,
		},
		"analizSonuclari": map[string]any{
			"guvenlikSkoru":  72,
			"genelDurum":     "İyi",
			"asinmaSeviyesi": "Orta",
		},
		"oneriler":             []string{"Rot balans kontrolü yaptırın"},
		"tespitEdilenSorunlar": []string{"İç kısımda düzensiz aşınma"},
		"musteriBilgileri":     map[string]any{"adSoyad": "Ayşe Yılmaz", "plaka": "34 ABC 123"},
	}
}

func TestExportHandler_Documents(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		contentType string
		extension   string
	}{
		{"excel", "/api/v1/exports/excel", report.ContentTypeExcel, ".xlsx"},
		{"word", "/api/v1/exports/word", report.ContentTypeWord, ".docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(t, http.MethodPost, tt.path, env.customer, analysisBody())

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			disposition := rec.Header().Get("Content-Disposition")
			assert.True(t, strings.HasPrefix(disposition, "attachment"), disposition)
			assert.Contains(t, disposition, report.FilenamePrefix)
			assert.Contains(t, disposition, tt.extension)
			// both formats are zip containers
			assert.Equal(t, "PK", rec.Body.String()[:2])

			url := rec.Header().Get(ExportURLHeader)
			require.True(t, strings.HasPrefix(url, "https://files.test/exports/"), url)
			assert.NotEmpty(t, rec.Header().Get("X-Export-Expires-At"))

			key, _, _ := strings.Cut(strings.TrimPrefix(url, "https://files.test/"), "?")
			obj, ok := env.archive.Get(key)
			require.True(t, ok, "document archived under %s", key)
			assert.Equal(t, rec.Body.Bytes(), obj.Data)
		})
	}
}

func TestExportHandler_Rejected(t *testing.T) {
	env := newTestEnv(t)

	t.Run("empty analysis", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/exports/excel", env.dealer, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidExport, errorCode(t, rec))
	})

	t.Run("score out of range", func(t *testing.T) {
		body := analysisBody()
		body["analizSonuclari"] = map[string]any{"guvenlikSkoru": 140}
		rec := env.do(t, http.MethodPost, "/api/v1/exports/word", env.dealer, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidExport, errorCode(t, rec))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/exports/word", env.dealer, `{"lastikBilgileri":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, errorCode(t, rec))
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/exports/excel", nil, analysisBody())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
