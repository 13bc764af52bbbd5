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

package utils

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// HomeDirExpand tries to expand the tilde (~) in the front of a path
// to a fullpath directory.
func HomeDirExpand(path string) string {
	usr, err := user.Current()
	if err != nil {
		return path
	}

	if path == "~" {
		return usr.HomeDir
	} else if strings.HasPrefix(path, "~/") {
		return filepath.Join(usr.HomeDir, strings.TrimPrefix(path, "~/"))
	}

	return path
}

// ResolvePath expands the home dir of p and joins it to root when relative.
func ResolvePath(root, p string) string {
	if p == "" {
		return p
	}
	p = HomeDirExpand(p)
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(HomeDirExpand(root), p)
}

// Exist return if file or path is exist.
func Exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil || os.IsExist(err)
}
