package parser

import (
	"context"
	"errors"

	"github.com/artur-t-96/MINDY/internal/model"
)

// ErrInterpretation marks an upload whose contents could not be turned into
// candidate records as a whole.
var ErrInterpretation = errors.New("spreadsheet interpretation failed")

// Panel selects which record families an upload is expected to carry.
type Panel string

const (
	PanelRecruitment Panel = "recruitment"
	PanelSales       Panel = "sales"
	PanelBoard       Panel = "board"
	PanelAuto        Panel = "auto"
)

// ParsePanel accepts panel names used by the API and CLI.
func ParsePanel(s string) (Panel, bool) {
	switch s {
	case "recruitment", "body-leasing", "rekrutacja":
		return PanelRecruitment, true
	case "sales", "sprzedaz":
		return PanelSales, true
	case "board", "rada-nadzorcza":
		return PanelBoard, true
	case "auto", "", "all":
		return PanelAuto, true
	}
	return "", false
}

// Kinds returns the record types a panel extracts.
func (p Panel) Kinds() []model.RecordType {
	switch p {
	case PanelRecruitment:
		return []model.RecordType{model.RecordRecruitment, model.RecordHitRatio}
	case PanelSales:
		return []model.RecordType{model.RecordSales}
	case PanelBoard:
		return []model.RecordType{model.RecordHitRatio, model.RecordBoardMath, model.RecordBoardDescriptive, model.RecordPrepCalls}
	}
	return model.RecordTypes
}

// Source is one uploaded file: where it lives and what the user called it.
type Source struct {
	Path string
	Name string
}

// Sheet is a worksheet as a grid of cell texts. Rows may be ragged.
type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook is a loaded spreadsheet file.
type Workbook struct {
	Name   string
	Sheets []Sheet
}

// Strategy turns uploaded workbooks into candidate records.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, sources []Source, panel Panel) (*model.Batch, error)
}

// Interpreter is the text-generation collaborator used by AssistedStrategy.
type Interpreter interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
