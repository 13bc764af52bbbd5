/*
 * Copyright 2018 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"math"
)

const (
	// DefaultPageSize is the page size of a request without one.
	DefaultPageSize = 20
	// MaxPageSize caps the page size of any request.
	MaxPageSize = 500
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
	Pages int `json:"pages"`

	defaultSize int
}

// PaginationOpt represents extra pagination options to apply.
type PaginationOpt func(*Pagination)

// WithDefaultSize set pagination default size.
func WithDefaultSize(size int) PaginationOpt {
	return func(p *Pagination) {
		if size <= 0 {
			p.defaultSize = DefaultPageSize
			return
		}
		p.defaultSize = size
	}
}

// NewPagination creates a new Pagination.
func NewPagination(page, size int, opts ...PaginationOpt) *Pagination {
	p := &Pagination{
		Page:        page,
		Size:        size,
		defaultSize: DefaultPageSize,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	p.normalize()
	return p
}

func (p *Pagination) normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = p.defaultSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Total <= 0 {
		p.Total = 0
	}

	p.Pages = int(math.Ceil(float64(p.Total) / float64(p.Size)))
}

// SetTotal update the total records.
func (p *Pagination) SetTotal(total int) {
	p.Total = total
	p.normalize()
}

// Offset returns the size of skipped items of current page.
func (p *Pagination) Offset() int {
	p.normalize()
	return (p.Page - 1) * p.Size
}

// Window returns the bounds of the current page in a list of total items.
func (p *Pagination) Window(total int) (start, end int) {
	p.SetTotal(total)
	start = p.Offset()
	if start > total {
		start = total
	}
	end = start + p.Size
	if end > total {
		end = total
	}
	return
}
