package geo

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

const earthRadiusMiles = 3958.8

type Coordinates struct {
	Lat  float64
	Long float64
}

type ZipRecord struct {
	Zip   string
	State string
	Coordinates
}

// Index is a static in-memory postal code index. Records keep their load
// order so that equal-distance lookups stay deterministic.
type Index struct {
	records []ZipRecord
}

func NewIndex(records []ZipRecord) *Index {
	return &Index{records: records}
}

func LoadIndex(path string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zipcode dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 4

	var records []ZipRecord

	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read zipcode dataset: %w", err)
		}

		// header row
		if line == 1 && row[0] == "zip" {
			continue
		}

		lat, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude at line %d: %w", line, err)
		}

		long, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude at line %d: %w", line, err)
		}

		records = append(records, ZipRecord{
			Zip:         row[0],
			State:       row[1],
			Coordinates: Coordinates{Lat: lat, Long: long},
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("zipcode dataset is empty: %s", path)
	}

	return &Index{records: records}, nil
}

func (i *Index) Len() int {
	return len(i.records)
}

// Nearest returns the closest record within radiusMiles of the given point.
// Strict comparison keeps the earlier record on equal distance.
func (i *Index) Nearest(lat, long, radiusMiles float64) (ZipRecord, bool) {
	var (
		best     ZipRecord
		bestDist = math.Inf(1)
	)

	for _, rec := range i.records {
		dist := haversineMiles(lat, long, rec.Lat, rec.Long)
		if dist < bestDist {
			best = rec
			bestDist = dist
		}
	}

	if bestDist > radiusMiles {
		return ZipRecord{}, false
	}

	return best, true
}

func haversineMiles(lat1, long1, lat2, long2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLong := radians(long2 - long1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLong/2)*math.Sin(dLong/2)

	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
