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


// Package batch runs the repair pipeline over many inputs concurrently.
//
// A batch.Pipeline fans inputs out to a bounded worker pool, collects
// the repair results in input order, and optionally journals every
// repair to a journal.RecordRepository. Journaling failures are logged
// and never fail the batch; repair itself is total and cannot fail.
//
// # Usage
//
//	rp, _ := repair.NewPipeline()
//	p, err := batch.NewPipeline(rp, batch.WithPoolSize(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Release()
//
//	results := p.Process(ctx, inputs)
package batch
