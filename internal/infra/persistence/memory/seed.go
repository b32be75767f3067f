package memory

import (
	"venuegate/internal/domain/entity"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type seedFile struct {
	Venues []entity.Venue `json:"venues"`
}

// LoadSeed reads venues from a yaml file and stores them. It returns the number of venues loaded.
//
// Example:
//
//	venues:
//	  - id: venue-1
//	    name: Rooftop Bar
//	    business_type: rooftop bar
//	    latitude: 25.0330
//	    longitude: 121.5654
//	    event_hub:
//	      enabled: true
//	      qr_code_id: qr-1
//	      schedule:
//	        friday: {enabled: true, start_time: "18:00", end_time: "02:00"}
func (s *Store) LoadSeed(path string) (int, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return 0, errors.Wrapf(err, "read seed file %s", path)
	}

	var seed seedFile
	if err := k.UnmarshalWithConf("", &seed, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return 0, errors.Wrapf(err, "decode seed file %s", path)
	}

	for i := range seed.Venues {
		if seed.Venues[i].ID == "" {
			return 0, errors.Errorf("seed venue %d has no id", i)
		}
		s.PutVenue(&seed.Venues[i])
	}

	return len(seed.Venues), nil
}
