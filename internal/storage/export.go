package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/scenecore/internal/sim"
)

type ExportEntity struct {
	ID        uint64       `json:"id"`
	Name      string       `json:"name"`
	Positions [][3]float64 `json:"positions"`
}

type ExportData struct {
	Scene     string             `json:"scene"`
	FixedStep float64            `json:"fixed_step"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Dropped   uint64             `json:"dropped"`
	Checksum  uint64             `json:"checksum"`
	Times     []float64          `json:"times"`
	Entities  []ExportEntity     `json:"entities"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewExportData(info RunInfo, result *sim.Result) ExportData {
	data := ExportData{
		Scene:     info.Scene,
		FixedStep: info.FixedStep,
		Duration:  info.Duration,
		Steps:     result.Steps,
		Dropped:   result.Dropped,
		Checksum:  result.Checksum(),
		Times:     result.Times,
		Entities:  make([]ExportEntity, 0),
		Metrics:   result.Metrics,
	}
	if len(result.Frames) == 0 {
		return data
	}

	for _, es := range result.Frames[0].Entities {
		traj := result.Trajectory(es.ID)
		ent := ExportEntity{ID: uint64(es.ID), Name: es.Name, Positions: make([][3]float64, len(traj))}
		for i, p := range traj {
			ent.Positions[i] = p.Array()
		}
		data.Entities = append(data.Entities, ent)
	}
	return data
}

func WriteJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}

func ExportJSON(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, info, result)
}
