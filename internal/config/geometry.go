// internal/config/geometry.go
package config

import "fmt"

// Read is one register range a logger mirrors per cycle.
type Read struct {
	FC       uint8
	Address  uint16
	Quantity uint16
}

// ValidateGeometry rejects mirror destinations whose ranges overlap.
// reads is keyed by logger id and only known once definitions are resolved.
func ValidateGeometry(cfg *Config, reads map[string][]Read) error {
	type span struct {
		start  uint32
		end    uint32
		logger string
	}

	// key = endpoint | memory_id | fc
	spans := make(map[string][]span)

	for _, l := range cfg.Loggers {
		for _, t := range l.Mirror {
			for _, m := range t.Memories {
				for _, r := range reads[l.ID] {
					if r.Quantity == 0 {
						continue
					}

					start := uint32(offsetFor(m.Offsets, r.FC)) + uint32(r.Address)
					end := start + uint32(r.Quantity) - 1
					if end > 0xFFFF {
						return fmt.Errorf(
							"logger %q: mirror endpoint=%s memory_id=%d fc=%d range %d-%d exceeds address space",
							l.ID, t.Endpoint, m.MemoryID, r.FC, start, end,
						)
					}

					key := fmt.Sprintf("%s|%d|%d", t.Endpoint, m.MemoryID, r.FC)

					for _, s := range spans[key] {
						// a logger may mirror overlapping requests of its own
						if s.logger == l.ID {
							continue
						}
						// overlap check (inclusive)
						if !(end < s.start || start > s.end) {
							return fmt.Errorf(
								"memory overlap: endpoint=%s memory_id=%d fc=%d range=%d-%d overlaps with logger=%s range=%d-%d",
								t.Endpoint,
								m.MemoryID,
								r.FC,
								start,
								end,
								s.logger,
								s.start,
								s.end,
							)
						}
					}

					spans[key] = append(spans[key], span{
						start:  start,
						end:    end,
						logger: l.ID,
					})
				}
			}
		}
	}

	return nil
}

func offsetFor(offsets map[int]uint16, fc uint8) uint16 {
	if v, ok := offsets[int(fc)]; ok {
		return v
	}
	return 0
}
