package run

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"digihealth/domain/behavior"
	"digihealth/domain/core"
)

// RunFingerprint ties a run's outputs to its inputs. Two runs over the same
// cleaned data with the same code produce the same fingerprint.
type RunFingerprint struct {
	DatasetHash core.Hash `json:"dataset_hash"`
	RowCount    int       `json:"row_count"`
	CodeVersion string    `json:"code_version"`
	Fingerprint core.Hash `json:"fingerprint"`
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(datasetHash core.Hash, rowCount int, thresholds behavior.Thresholds, codeVersion string) RunFingerprint {
	data := fmt.Sprintf("dataset:%s|rows:%d|social:%s|sleep:%s|median:%s|code:%s",
		datasetHash, rowCount,
		strconv.FormatFloat(thresholds.Social, 'g', -1, 64),
		strconv.FormatFloat(thresholds.Sleep, 'g', -1, 64),
		strconv.FormatFloat(thresholds.MedianSocial, 'g', -1, 64),
		codeVersion)

	return RunFingerprint{
		DatasetHash: datasetHash,
		RowCount:    rowCount,
		CodeVersion: codeVersion,
		Fingerprint: core.NewHash([]byte(data)),
	}
}

// Value is a float that serializes NaN and infinities as JSON null.
type Value float64

// Float returns the underlying value.
func (v Value) Float() float64 { return float64(v) }

// Defined reports whether the value is finite.
func (v Value) Defined() bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(v))
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Value(f)
	return nil
}
