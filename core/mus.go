// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for journal persistence. The set of
// journaled types is small enough that generated code is not worth the
// extra build step.
var (
	// IDMUS serializes ID values.
	IDMUS = idMUS{}
	// StageMUS serializes Stage values.
	StageMUS = stageMUS{}
	// RepairAttemptMUS serializes RepairAttempt values.
	RepairAttemptMUS = repairAttemptMUS{}
	// RepairRecordMUS serializes RepairRecord values.
	RepairRecordMUS = repairRecordMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (s idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (s idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type stageMUS struct{}

func (s stageMUS) Marshal(stage Stage, bs []byte) (n int) {
	return varint.Int.Marshal(int(stage), bs)
}

func (s stageMUS) Unmarshal(bs []byte) (stage Stage, n int, err error) {
	num, n, err := varint.Int.Unmarshal(bs)
	return Stage(num), n, err
}

func (s stageMUS) Size(stage Stage) (size int) {
	return varint.Int.Size(int(stage))
}

func (s stageMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

type repairAttemptMUS struct{}

func (s repairAttemptMUS) Marshal(a RepairAttempt, bs []byte) (n int) {
	n = StageMUS.Marshal(a.Stage, bs)
	n += ord.String.Marshal(a.Candidate, bs[n:])
	n += ord.Bool.Marshal(a.Parsed, bs[n:])
	return n
}

func (s repairAttemptMUS) Unmarshal(bs []byte) (a RepairAttempt, n int, err error) {
	var n1 int
	a.Stage, n, err = StageMUS.Unmarshal(bs)
	if err != nil {
		return a, n, err
	}
	a.Candidate, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return a, n, err
	}
	a.Parsed, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return a, n, err
}

func (s repairAttemptMUS) Size(a RepairAttempt) (size int) {
	size = StageMUS.Size(a.Stage)
	size += ord.String.Size(a.Candidate)
	size += ord.Bool.Size(a.Parsed)
	return size
}

func (s repairAttemptMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = StageMUS.Skip(bs)
	if err != nil {
		return n, err
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = ord.Bool.Skip(bs[n:])
	return n + n1, err
}

type repairRecordMUS struct{}

func (s repairRecordMUS) Marshal(r RepairRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.Input, bs[n:])
	n += ord.String.Marshal(r.Output, bs[n:])
	n += StageMUS.Marshal(r.Stage, bs[n:])
	n += ord.String.Marshal(r.Reason, bs[n:])
	n += varint.Int.Marshal(len(r.Attempts), bs[n:])
	for _, attempt := range r.Attempts {
		n += RepairAttemptMUS.Marshal(attempt, bs[n:])
	}
	n += varint.Int64.Marshal(r.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (s repairRecordMUS) Unmarshal(bs []byte) (r RepairRecord, n int, err error) {
	var n1 int
	r.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return r, n, err
	}
	r.Input, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.Output, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.Stage, n1, err = StageMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.Reason, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	if count > 0 {
		r.Attempts = make([]RepairAttempt, count)
		for i := 0; i < count; i++ {
			r.Attempts[i], n1, err = RepairAttemptMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return r, n, err
			}
		}
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.InsertedAt = time.UnixMicro(micros).UTC()
	return r, n, nil
}

func (s repairRecordMUS) Size(r RepairRecord) (size int) {
	size = IDMUS.Size(r.Id)
	size += ord.String.Size(r.Input)
	size += ord.String.Size(r.Output)
	size += StageMUS.Size(r.Stage)
	size += ord.String.Size(r.Reason)
	size += varint.Int.Size(len(r.Attempts))
	for _, attempt := range r.Attempts {
		size += RepairAttemptMUS.Size(attempt)
	}
	size += varint.Int64.Size(r.InsertedAt.UnixMicro())
	return size
}

func (s repairRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return n, err
	}
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	n1, err = StageMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	for i := 0; i < count; i++ {
		n1, err = RepairAttemptMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	return n + n1, err
}
