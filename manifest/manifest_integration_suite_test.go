// Copyright 2025 The Rivaas Authors
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

package manifest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/routecheck"
	"rivaas.dev/routecheck/manifest"
)

const userViews = `
classes:
  - name: View
    module: framework.views
    methods: [dispatch]
    http_method_names: [get]
  - name: UserView
    module: users.views
    bases: [View]
    methods: [get]
functions:
  - class: View
    name: dispatch
    params:
      - {name: self, self: true}
      - {name: request, annotation: HttpRequest}
      - {name: kwargs, variadic_keywords: true, annotation: object}
  - class: UserView
    name: get
    params:
      - {name: self, self: true}
      - {name: request, annotation: HttpRequest}
      - {name: user_id, annotation: int, keyword_only: true}
settings:
  lifecycle: [dispatch]
  framework_modules: [framework.]
  scenarios:
    kwargs_annotated:
      allows_object: true
`

var _ = Describe("Manifest Integration", Label("integration"), func() {
	var dir string

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	check := func(paths ...string) *routecheck.ErrorContainer {
		doc, err := manifest.Load(context.Background(), paths...)
		Expect(err).NotTo(HaveOccurred())

		plan, err := manifest.Compile(doc)
		Expect(err).NotTo(HaveOccurred())

		err = plan.Check(context.Background())
		if err == nil {
			return routecheck.NewErrorContainer()
		}

		var found *routecheck.FoundInvalidPatterns
		Expect(errors.As(err, &found)).To(BeTrue())
		return found.Errors
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Describe("Consistent routes", func() {
		It("should report nothing when captures match the handler", func() {
			views := write("views.yaml", userViews)
			routes := write("routes.toml", `
[[routes]]
template = "/users/{user_id:int}"
name = "user"
class = "UserView"
`)

			Expect(check(views, routes).Empty()).To(BeTrue())
		})
	})

	Describe("Inconsistent routes", func() {
		It("should report a converter that does not match the annotation", func() {
			views := write("views.yaml", userViews)
			routes := write("routes.json", `{"routes": [{"template": "/users/{user_id:uuid}", "class": "UserView"}]}`)

			errs := check(views, routes)
			Expect(errs.Len()).To(Equal(1))
			Expect(errs.Violations()[0]).To(BeAssignableToTypeOf(&routecheck.InvalidArgAnnotations{}))
			Expect(errs.Violations()[0].Error()).To(ContainSubstring("user_id"))
		})

		It("should report each distinct problem once", func() {
			views := write("views.yaml", userViews)
			routes := write("routes.yaml", `
routes:
  - template: /people
    routes:
      - template: /{id:int}
        class: UserView
      - template: /{id:int}
        class: UserView
`)

			errs := check(views, routes)
			Expect(errs.Len()).To(Equal(2))
			Expect(errs.Total()).To(Equal(4))
			Expect(errs.ByMostRepeated()).To(HaveLen(2))
		})

		It("should stop after the first sweep with violations when asked to", func() {
			views := write("views.yaml", userViews)
			routes := write("routes.yaml", `
settings:
  scenarios:
    required_args: {exit_early: true}
routes:
  - template: /people/{id:int}
    class: UserView
`)

			errs := check(views, routes)
			Expect(errs.Len()).To(Equal(1))
			Expect(errs.Violations()[0].Kind()).To(Equal("RequiredArgOnViewNotAlwaysRequiredByPattern"))
		})
	})

	Describe("Invalid manifests", func() {
		It("should name the failing source", func() {
			broken := write("broken.yaml", "routes: [")

			_, err := manifest.Load(context.Background(), broken)
			var merr *manifest.Error
			Expect(errors.As(err, &merr)).To(BeTrue())
			Expect(merr.Source).To(Equal(broken))
			Expect(merr.Operation).To(Equal("load"))
		})
	})
})

//nolint:paralleltest // Ginkgo test suite manages its own parallelization
func TestManifestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	RegisterFailHandler(Fail)
	RunSpecs(t, "Manifest Integration Suite")
}
