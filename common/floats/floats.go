// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package floats

func dot(a, b []float64) (ret float64) {
	for i := range a {
		ret += a[i] * b[i]
	}
	return
}

func subTo(a, b, dst []float64) {
	for i := range a {
		dst[i] = a[i] - b[i]
	}
}

func mulConstTo(a []float64, b float64, dst []float64) {
	for i := range a {
		dst[i] = a[i] * b
	}
}

func mulConst(a []float64, b float64) {
	for i := range a {
		a[i] *= b
	}
}

func mulConstAdd(a []float64, c float64, dst []float64) {
	for i := range a {
		dst[i] += a[i] * c
	}
}

func mulConstAddTo(a []float64, b float64, c []float64, dst []float64) {
	for i := range a {
		dst[i] = a[i]*b + c[i]
	}
}

// Dot computes the dot product of two vectors.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	return dot(a, b)
}

// SubTo subtracts one vector by another and saves the result in dst: dst = a - b
func SubTo(a, b, dst []float64) {
	if len(dst) != len(b) || len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	subTo(a, b, dst)
}

// MulConstTo multiplies a vector by a constant and saves the result in dst: dst = a * b
func MulConstTo(a []float64, b float64, dst []float64) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	mulConstTo(a, b, dst)
}

// MulConst multiplies a vector by a constant in place: a *= b
func MulConst(a []float64, b float64) {
	mulConst(a, b)
}

// MulConstAdd multiplies a vector by a constant and adds to dst: dst += a * c
func MulConstAdd(a []float64, c float64, dst []float64) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	mulConstAdd(a, c, dst)
}

// MulConstAddTo multiplies a vector by a constant, adds a vector and saves
// the result in dst: dst = a * b + c
func MulConstAddTo(a []float64, b float64, c, dst []float64) {
	if len(a) != len(c) || len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	mulConstAddTo(a, b, c, dst)
}
