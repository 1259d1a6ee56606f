// Package api defines the gRPC surface of gophreveal: request and response
// messages, the service descriptor, and a client stub. Messages travel in
// protobuf wire format through the codec registered in codec.go; the field
// numbers below are the schema.
package api

import "time"

type SubmitRecordRequest struct {
	Title []byte
	Body  []byte
	Topic []byte
}

func (m *SubmitRecordRequest) appendWire(b []byte) []byte {
	b = appendBytes(b, 1, m.Title)
	b = appendBytes(b, 2, m.Body)
	return appendBytes(b, 3, m.Topic)
}

func (m *SubmitRecordRequest) readField(f field) error {
	switch f.num {
	case 1:
		m.Title = f.asBytes()
	case 2:
		m.Body = f.asBytes()
	case 3:
		m.Topic = f.asBytes()
	}
	return nil
}

type SubmitRecordResponse struct {
	ID int64
}

func (m *SubmitRecordResponse) appendWire(b []byte) []byte { return appendInt64(b, 1, m.ID) }

func (m *SubmitRecordResponse) readField(f field) error {
	if f.num == 1 {
		m.ID = f.asInt64()
	}
	return nil
}

type RequestRecordDecryptionRequest struct {
	ID int64
}

func (m *RequestRecordDecryptionRequest) appendWire(b []byte) []byte { return appendInt64(b, 1, m.ID) }

func (m *RequestRecordDecryptionRequest) readField(f field) error {
	if f.num == 1 {
		m.ID = f.asInt64()
	}
	return nil
}

type RequestTopicCounterDecryptionRequest struct {
	Topic string
}

func (m *RequestTopicCounterDecryptionRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Topic)
}

func (m *RequestTopicCounterDecryptionRequest) readField(f field) error {
	if f.num == 1 {
		m.Topic = f.asString()
	}
	return nil
}

// DecryptionRequestResponse carries the correlation id the oracle callback
// will use.
type DecryptionRequestResponse struct {
	CorrelationID string
}

func (m *DecryptionRequestResponse) appendWire(b []byte) []byte {
	return appendString(b, 1, m.CorrelationID)
}

func (m *DecryptionRequestResponse) readField(f field) error {
	if f.num == 1 {
		m.CorrelationID = f.asString()
	}
	return nil
}

type GetRevealedRecordRequest struct {
	ID int64
}

func (m *GetRevealedRecordRequest) appendWire(b []byte) []byte { return appendInt64(b, 1, m.ID) }

func (m *GetRevealedRecordRequest) readField(f field) error {
	if f.num == 1 {
		m.ID = f.asInt64()
	}
	return nil
}

type RevealedRecord struct {
	ID       int64
	Title    string
	Body     string
	Topic    string
	Revealed bool
}

func (m *RevealedRecord) appendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendString(b, 2, m.Title)
	b = appendString(b, 3, m.Body)
	b = appendString(b, 4, m.Topic)
	return appendBool(b, 5, m.Revealed)
}

func (m *RevealedRecord) readField(f field) error {
	switch f.num {
	case 1:
		m.ID = f.asInt64()
	case 2:
		m.Title = f.asString()
	case 3:
		m.Body = f.asString()
	case 4:
		m.Topic = f.asString()
	case 5:
		m.Revealed = f.asBool()
	}
	return nil
}

type GetMetadataRequest struct {
	ID int64
}

func (m *GetMetadataRequest) appendWire(b []byte) []byte { return appendInt64(b, 1, m.ID) }

func (m *GetMetadataRequest) readField(f field) error {
	if f.num == 1 {
		m.ID = f.asInt64()
	}
	return nil
}

type Metadata struct {
	ID        int64
	Title     []byte
	Body      []byte
	Topic     []byte
	CreatedAt time.Time
}

func (m *Metadata) appendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendBytes(b, 2, m.Title)
	b = appendBytes(b, 3, m.Body)
	b = appendBytes(b, 4, m.Topic)
	return appendTime(b, 5, m.CreatedAt)
}

func (m *Metadata) readField(f field) (err error) {
	switch f.num {
	case 1:
		m.ID = f.asInt64()
	case 2:
		m.Title = f.asBytes()
	case 3:
		m.Body = f.asBytes()
	case 4:
		m.Topic = f.asBytes()
	case 5:
		m.CreatedAt, err = f.asTime()
	}
	return err
}

type GetEncryptedCounterRequest struct {
	Topic string
}

func (m *GetEncryptedCounterRequest) appendWire(b []byte) []byte { return appendString(b, 1, m.Topic) }

func (m *GetEncryptedCounterRequest) readField(f field) error {
	if f.num == 1 {
		m.Topic = f.asString()
	}
	return nil
}

// EncryptedCounter has an empty Handle when the topic has no counter.
type EncryptedCounter struct {
	Topic       string
	Handle      []byte
	Initialized bool
}

func (m *EncryptedCounter) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Topic)
	b = appendBytes(b, 2, m.Handle)
	return appendBool(b, 3, m.Initialized)
}

func (m *EncryptedCounter) readField(f field) error {
	switch f.num {
	case 1:
		m.Topic = f.asString()
	case 2:
		m.Handle = f.asBytes()
	case 3:
		m.Initialized = f.asBool()
	}
	return nil
}

type ResetCountersRequest struct{}

func (m *ResetCountersRequest) appendWire(b []byte) []byte { return b }
func (m *ResetCountersRequest) readField(field) error      { return nil }

type CancelRequestRequest struct {
	CorrelationID string
}

func (m *CancelRequestRequest) appendWire(b []byte) []byte { return appendString(b, 1, m.CorrelationID) }

func (m *CancelRequestRequest) readField(f field) error {
	if f.num == 1 {
		m.CorrelationID = f.asString()
	}
	return nil
}

type ListTopicsRequest struct{}

func (m *ListTopicsRequest) appendWire(b []byte) []byte { return b }
func (m *ListTopicsRequest) readField(field) error      { return nil }

type ListTopicsResponse struct {
	Topics []string
}

func (m *ListTopicsResponse) appendWire(b []byte) []byte {
	for _, t := range m.Topics {
		b = appendRepeatedString(b, 1, t)
	}
	return b
}

func (m *ListTopicsResponse) readField(f field) error {
	if f.num == 1 {
		m.Topics = append(m.Topics, f.asString())
	}
	return nil
}

type ListEventsRequest struct {
	After int64
	Limit int32
}

func (m *ListEventsRequest) appendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.After)
	return appendInt64(b, 2, int64(m.Limit))
}

func (m *ListEventsRequest) readField(f field) error {
	switch f.num {
	case 1:
		m.After = f.asInt64()
	case 2:
		m.Limit = int32(f.asInt64())
	}
	return nil
}

type Event struct {
	Seq           int64
	Kind          string
	RecordID      int64
	Topic         string
	Count         uint64
	CorrelationID string
	CreatedAt     time.Time
}

func (m *Event) appendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.Seq)
	b = appendString(b, 2, m.Kind)
	b = appendInt64(b, 3, m.RecordID)
	b = appendString(b, 4, m.Topic)
	b = appendVarint(b, 5, m.Count)
	b = appendString(b, 6, m.CorrelationID)
	return appendTime(b, 7, m.CreatedAt)
}

func (m *Event) readField(f field) (err error) {
	switch f.num {
	case 1:
		m.Seq = f.asInt64()
	case 2:
		m.Kind = f.asString()
	case 3:
		m.RecordID = f.asInt64()
	case 4:
		m.Topic = f.asString()
	case 5:
		m.Count = f.u
	case 6:
		m.CorrelationID = f.asString()
	case 7:
		m.CreatedAt, err = f.asTime()
	}
	return err
}

type ListEventsResponse struct {
	Events []*Event
}

func (m *ListEventsResponse) appendWire(b []byte) []byte {
	for _, e := range m.Events {
		b = appendMessage(b, 1, e)
	}
	return b
}

func (m *ListEventsResponse) readField(f field) error {
	if f.num != 1 {
		return nil
	}
	e := &Event{}
	if err := unmarshal(f.b, e); err != nil {
		return err
	}
	m.Events = append(m.Events, e)
	return nil
}

type PingRequest struct{}

func (m *PingRequest) appendWire(b []byte) []byte { return b }
func (m *PingRequest) readField(field) error      { return nil }

type PingResponse struct {
	Status string
}

func (m *PingResponse) appendWire(b []byte) []byte { return appendString(b, 1, m.Status) }

func (m *PingResponse) readField(f field) error {
	if f.num == 1 {
		m.Status = f.asString()
	}
	return nil
}

type Empty struct{}

func (m *Empty) appendWire(b []byte) []byte { return b }
func (m *Empty) readField(field) error      { return nil }
