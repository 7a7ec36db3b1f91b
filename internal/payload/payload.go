package payload

import (
	"encoding/json"

	"rtc/internal/domain"
	"rtc/internal/runenv"
	"rtc/internal/session"
)

// Payload is one upload batch for the analytics API: the identity record plus
// a set of test records keyed by full test name. A payload may carry
// incomplete records internally; they never appear in the serialized view.
type Payload struct {
	Env     runenv.Environment
	Records map[string]domain.TestRecord
}

// MarshalJSON emits the upload wire shape. The data list is restricted to
// complete records.
func (p Payload) MarshalJSON() ([]byte, error) {
	data := make([]domain.TestRecord, 0, len(p.Records))
	for _, record := range p.Records {
		if record.Complete() {
			data = append(data, record)
		}
	}

	return json.Marshal(struct {
		Format string              `json:"format"`
		RunEnv runenv.Environment  `json:"run_env"`
		Data   []domain.TestRecord `json:"data"`
	}{
		Format: "json",
		RunEnv: p.Env,
		Data:   data,
	})
}

// Batchify splits the session's records into payloads of at most batchSize
// records each. Complete records are chunked; after each chunk, if the
// payload is still strictly under batchSize, every incomplete record is
// piggy-backed onto it. Incomplete records never get a payload of their own,
// so a session with zero complete records yields no payloads. Reading the
// session is all this does; the session is left untouched.
func Batchify(s *session.Session, batchSize int) []Payload {
	if batchSize <= 0 {
		batchSize = 1
	}

	var complete, incomplete []domain.TestRecord
	for _, record := range s.Records() {
		if record.Complete() {
			complete = append(complete, record)
		} else {
			incomplete = append(incomplete, record)
		}
	}

	var payloads []Payload
	for start := 0; start < len(complete); start += batchSize {
		end := min(start+batchSize, len(complete))

		p := Payload{
			Env:     s.Env(),
			Records: make(map[string]domain.TestRecord, end-start),
		}
		for _, record := range complete[start:end] {
			p.Records[record.FullName] = record
		}
		if len(p.Records) < batchSize {
			for _, record := range incomplete {
				p.Records[record.FullName] = record
			}
		}

		payloads = append(payloads, p)
	}

	return payloads
}
