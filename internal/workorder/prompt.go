package workorder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"maintenanceManagement/models"
)

// Prompter collects the completion time before a task is finished.
type Prompter interface {
	PromptCompletionTime(ot models.WorkOrder) (string, error)
}

// ErrPromptDismissed is returned when the input ends before an answer.
var ErrPromptDismissed = errors.New("prompt dismissed")

// LinePrompter asks on Out and reads one line from In.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

// PromptCompletionTime prints the order number and reads one line of minutes.
func (p LinePrompter) PromptCompletionTime(ot models.WorkOrder) (string, error) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, "Tiempo de finalización de la OT %s (minutos): ", ot.OrderNumber)
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && line == "":
		return "", ErrPromptDismissed
	case err != nil && !errors.Is(err, io.EOF):
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// StaticPrompter answers with a fixed value.
type StaticPrompter string

// PromptCompletionTime returns s.
func (s StaticPrompter) PromptCompletionTime(models.WorkOrder) (string, error) {
	return string(s), nil
}
