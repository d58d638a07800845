package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-pressbox/pkg/catalog"
)

// prompter abstracts the terminal prompts so the session flow can be tested
// without a real terminal.
type prompter interface {
	Field(ctx context.Context, field catalog.FieldSpec, current, lastError string) (string, error)
	Select(ctx context.Context, message string, options []string, defaultIndex int) (int, error)
	Confirm(ctx context.Context, message string, defaultValue bool) (bool, error)
	TextArea(ctx context.Context, message, current string) (string, error)
}

type surveyPrompter struct{}

var _ prompter = surveyPrompter{}

// Field prompts for one form field with the widget matching its kind.
func (surveyPrompter) Field(ctx context.Context, field catalog.FieldSpec, current, lastError string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	message := field.Label
	if message == "" {
		message = field.ID
	}
	help := field.HelpText
	if lastError != "" {
		help = lastError
	}

	var opts []survey.AskOpt
	if field.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	var out string
	switch field.Kind {
	case catalog.FieldSingleSelect:
		options := make([]string, len(field.Options))
		for i, option := range field.Options {
			options[i] = option.Label
		}
		idx := 0
		for i, option := range field.Options {
			if option.Value == current {
				idx = i
			}
		}
		prompt := &survey.Select{Message: message, Options: options, Help: help, Default: options[idx]}
		var picked int
		if err := survey.AskOne(prompt, &picked, opts...); err != nil {
			return "", translateSurveyErr(err)
		}
		return field.Options[picked].Value, nil
	case catalog.FieldLongText:
		prompt := &survey.Multiline{Message: message, Default: current, Help: help}
		if err := survey.AskOne(prompt, &out, opts...); err != nil {
			return "", translateSurveyErr(err)
		}
	default:
		prompt := &survey.Input{Message: message, Default: current, Help: help}
		if field.Placeholder != "" && prompt.Help == "" {
			prompt.Help = "e.g. " + field.Placeholder
		}
		if err := survey.AskOne(prompt, &out, opts...); err != nil {
			return "", translateSurveyErr(err)
		}
	}
	return strings.TrimSpace(out), nil
}

func (surveyPrompter) Select(ctx context.Context, message string, options []string, defaultIndex int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	prompt := &survey.Select{Message: message, Options: options}
	if defaultIndex >= 0 && defaultIndex < len(options) {
		prompt.Default = options[defaultIndex]
	}
	var picked int
	if err := survey.AskOne(prompt, &picked); err != nil {
		return 0, translateSurveyErr(err)
	}
	return picked, nil
}

func (surveyPrompter) Confirm(ctx context.Context, message string, defaultValue bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{Message: message, Default: defaultValue}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) TextArea(ctx context.Context, message, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Multiline{Message: message, Default: current}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return context.Canceled
	}
	return fmt.Errorf("prompt: %w", err)
}
