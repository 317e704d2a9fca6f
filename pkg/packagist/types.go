package packagist

import (
	"encoding/json"
	"time"
)

type p2Response struct {
	Packages map[string][]p2Version `json:"packages"`
}

// p2Version is one release entry from the minified p2 metadata format.
type p2Version struct {
	Version    string            `json:"version"`
	Time       time.Time         `json:"time"`
	Require    map[string]string `json:"require"`
	Abandoned  bool              `json:"-"`
	ReplacedBy string            `json:"-"`
}

// UnmarshalJSON decodes a p2 version entry leniently. Registry payloads in
// the wild deviate from the schema in two spots: "abandoned" is either a
// boolean or a string naming the replacement package, and "require" values
// are occasionally non-strings. Malformed fields degrade to their zero
// values rather than failing the whole package.
func (v *p2Version) UnmarshalJSON(b []byte) error {
	type raw struct {
		Version   string          `json:"version"`
		Time      string          `json:"time"`
		Require   json.RawMessage `json:"require"`
		Abandoned json.RawMessage `json:"abandoned"`
	}

	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}

	v.Version = r.Version
	if r.Time != "" {
		if t, err := time.Parse(time.RFC3339, r.Time); err == nil {
			v.Time = t
		}
	}

	if len(r.Require) > 0 && string(r.Require) != "null" {
		v.Require = make(map[string]string)
		if err := json.Unmarshal(r.Require, &v.Require); err != nil {
			var anyObj map[string]any
			if json.Unmarshal(r.Require, &anyObj) == nil {
				for k, val := range anyObj {
					if s, ok := val.(string); ok {
						v.Require[k] = s
					}
				}
			}
		}
	}

	if len(r.Abandoned) > 0 && string(r.Abandoned) != "null" {
		var flag bool
		if json.Unmarshal(r.Abandoned, &flag) == nil {
			v.Abandoned = flag
		} else {
			var replacement string
			if json.Unmarshal(r.Abandoned, &replacement) == nil && replacement != "" {
				v.Abandoned = true
				v.ReplacedBy = replacement
			}
		}
	}
	return nil
}

