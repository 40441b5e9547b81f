package testkit

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"digihealth/domain/behavior"

	"github.com/xuri/excelize/v2"
)

// SourceColumns is the header of the raw survey export. It carries identifying
// and categorical columns in addition to the seven numeric ones.
var SourceColumns = []string{
	"person_name",
	"age",
	"date",
	"gender",
	"platform",
	string(behavior.ColumnSocialMediaTime),
	string(behavior.ColumnNegativeInteractions),
	string(behavior.ColumnPositiveInteractions),
	string(behavior.ColumnSleepHours),
	string(behavior.ColumnMood),
	string(behavior.ColumnStress),
	string(behavior.ColumnAnxiety),
	"mental_state",
}

// ScenarioRows is a four-user dataset whose thresholds are social 325, sleep
// 5.75 and median social 250.
func ScenarioRows() []behavior.Row {
	return []behavior.Row{
		{SocialMediaTimeMin: 100, SleepHours: 8, NegativeInteractionsCount: 0, PositiveInteractionsCount: 2, StressLevel: 2, AnxietyLevel: 1, MoodLevel: 8},
		{SocialMediaTimeMin: 200, SleepHours: 7, NegativeInteractionsCount: 0, PositiveInteractionsCount: 3, StressLevel: 3, AnxietyLevel: 2, MoodLevel: 7},
		{SocialMediaTimeMin: 300, SleepHours: 6, NegativeInteractionsCount: 1, PositiveInteractionsCount: 1, StressLevel: 6, AnxietyLevel: 5, MoodLevel: 5},
		{SocialMediaTimeMin: 400, SleepHours: 5, NegativeInteractionsCount: 3, PositiveInteractionsCount: 0, StressLevel: 7, AnxietyLevel: 6, MoodLevel: 3},
	}
}

// SourceRecords renders rows in the raw export layout including the header.
func SourceRecords(rows []behavior.Row) [][]string {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, append([]string(nil), SourceColumns...))
	for i, row := range rows {
		record := make([]string, len(SourceColumns))
		for j, name := range SourceColumns {
			switch name {
			case "person_name":
				record[j] = fmt.Sprintf("user_%03d", i+1)
			case "age":
				record[j] = strconv.Itoa(18 + i%40)
			case "date":
				record[j] = "2024-03-01"
			case "gender":
				record[j] = []string{"female", "male", "other"}[i%3]
			case "platform":
				record[j] = []string{"Instagram", "TikTok", "Facebook", "X"}[i%4]
			case "mental_state":
				record[j] = "Stable"
			default:
				record[j] = strconv.FormatFloat(row.Value(behavior.Column(name)), 'f', -1, 64)
			}
		}
		records = append(records, record)
	}
	return records
}

// WriteXLSX writes records to sheet in a new workbook at path. An empty sheet
// name uses the default first sheet.
func WriteXLSX(path, sheet string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	name := f.GetSheetName(0)
	if sheet != "" && sheet != name {
		if err := f.SetSheetName(name, sheet); err != nil {
			return err
		}
		name = sheet
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(record))
		for j, v := range record {
			// Numbers are stored as numeric cells like a real export.
			if n, err := strconv.ParseFloat(v, 64); err == nil && i > 0 {
				values[j] = n
			} else {
				values[j] = v
			}
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// WriteCSV writes records as CSV at path.
func WriteCSV(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return file.Close()
}
