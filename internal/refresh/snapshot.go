package refresh

import (
	"os"
	"time"

	json "github.com/goccy/go-json"

	"pricewatch/internal/models"
	"pricewatch/internal/providers"
	"pricewatch/internal/refresh/interfaces"
)

// SnapshotManager persists the latest product summaries to a compressed
// file so a restart can warm the cache before the first refresh cycle.
type SnapshotManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

type snapshotFile struct {
	Summaries map[string]*models.ProductSummary `json:"summaries"`
	SavedAt   time.Time                         `json:"saved_at"`
}

func NewSnapshotManager(compressor interfaces.CompressorInterface, logger providers.Logger) *SnapshotManager {
	return &SnapshotManager{
		compressor: compressor,
		logger:     logger,
	}
}

func (sm *SnapshotManager) Save(fileName string, summaries map[string]*models.ProductSummary) error {
	jsonData, err := json.Marshal(snapshotFile{
		Summaries: summaries,
		SavedAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	data, err := sm.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// Load returns the stored summaries. A missing file is not an error, it
// just means a cold start.
func (sm *SnapshotManager) Load(fileName string) (map[string]*models.ProductSummary, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*models.ProductSummary{}, nil
		}
		return nil, err
	}

	decompressed, err := sm.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}

	var snap snapshotFile
	if err := json.Unmarshal(decompressed, &snap); err != nil {
		return nil, err
	}
	if snap.Summaries == nil {
		snap.Summaries = map[string]*models.ProductSummary{}
	}
	return snap.Summaries, nil
}

func (sm *SnapshotManager) Close() {
	sm.compressor.Close()
}
