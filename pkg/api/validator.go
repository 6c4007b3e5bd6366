package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p TargetPayload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func (p TalkPayload) Validate() error {
	if p.Name == "" && p.Text == "" {
		return errors.New("either name or text is required")
	}
	return nil
}

func (p FreeTextPayload) Validate() error {
	if p.Text == "" {
		return errors.New("text is required")
	}
	return nil
}
