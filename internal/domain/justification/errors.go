package justification

import "errors"

var (
	ErrJustificationNotFound        = errors.New("justification not found")
	ErrJustificationAlreadyReviewed = errors.New("justification already reviewed")
	ErrJustificationNotPending      = errors.New("only pending justifications can be deleted")
	ErrInvalidAttachmentType        = errors.New("invalid file type: only pdf, jpg, jpeg, png allowed")
	ErrCannotReviewOwn              = errors.New("cannot review own justification")
	ErrUnauthorizedAccess           = errors.New("unauthorized access to justification")
	ErrAttachmentNotFound           = errors.New("justification has no attachment")
)
