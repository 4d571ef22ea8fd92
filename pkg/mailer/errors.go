package mailer

import "errors"

var (
	ErrNoRecipient        = errors.New("mailer: no recipient")
	ErrTemplateNotFound   = errors.New("mailer: template not found")
	ErrInvalidFrontmatter = errors.New("mailer: invalid front matter")
	ErrRenderFailed       = errors.New("mailer: render failed")
	ErrSendFailed         = errors.New("mailer: send failed")
)
