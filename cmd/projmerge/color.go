package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"projmerge/internal/resolution"
)

var (
	newColor       = color.New(color.FgGreen, color.Bold).SprintFunc()
	duplicateColor = color.New(color.FgHiBlack).SprintFunc()
	reviewColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
	warnColor      = color.New(color.FgRed).SprintFunc()
)

func shouldColorize(writer io.Writer) bool {
	if color.NoColor {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func outcomeLabel(outcome resolution.Outcome, colorize bool) string {
	label := string(outcome)
	if !colorize {
		return label
	}
	switch outcome {
	case resolution.OutcomeNew:
		return newColor(label)
	case resolution.OutcomeDuplicate:
		return duplicateColor(label)
	case resolution.OutcomeReview:
		return reviewColor(label)
	default:
		return label
	}
}

func warnText(text string, colorize bool) string {
	if !colorize {
		return text
	}
	return warnColor(text)
}
