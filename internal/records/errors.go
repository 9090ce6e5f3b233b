package records

import (
	"errors"
	"fmt"

	"backoffice/internal/apiclient"
)

var (
	// ErrFetch marks a failed list load. The list keeps its previous rows.
	ErrFetch = errors.New("데이터를 불러오는데 실패했습니다.")
	// ErrUpload marks an upload the server rejected or never received.
	ErrUpload = errors.New("파일 업로드에 실패했습니다.")
	// ErrWrongFileType is returned before any network call for non-CSV files.
	ErrWrongFileType = errors.New("CSV 파일만 업로드 가능합니다!")
	// ErrSessionExpired marks a data call answered with 401.
	ErrSessionExpired = errors.New("session expired")
	// ErrSuperseded is returned by a load whose response arrived after a newer load was issued.
	ErrSuperseded = errors.New("load superseded by a newer request")
)

func classify(kind, err error) error {
	if apiclient.IsUnauthorized(err) {
		return fmt.Errorf("%w: %w: %w", kind, ErrSessionExpired, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// UploadSucceeded is the notice shown after a successful upload.
func UploadSucceeded(fileName string) string {
	return fmt.Sprintf("%s 파일이 성공적으로 업로드되었습니다.", fileName)
}

// UploadFailed is the notice shown after a rejected upload.
func UploadFailed(fileName string) string {
	return fmt.Sprintf("%s 파일 업로드에 실패했습니다.", fileName)
}

// Notice converts a list error into the operator-facing message.
// It returns "" for errors that should not be surfaced (superseded loads).
func Notice(err error, fileName string) string {
	switch {
	case err == nil, errors.Is(err, ErrSuperseded):
		return ""
	case errors.Is(err, ErrWrongFileType):
		return ErrWrongFileType.Error()
	case errors.Is(err, ErrUpload):
		return UploadFailed(fileName)
	default:
		return ErrFetch.Error()
	}
}
