package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	cli "github.com/mark3labs/msgdoc/internal/cli"
)

const shopCatalog = "../catalog/testdata/shop.yaml"

// rawDocument is a hand-written Swagger 2.0 description of the shop
// controller, as an upstream generator would emit it: every field present,
// no hierarchy modelling.
const rawDocument = `swagger: "2.0"
info:
  title: Shop
  version: v1
paths:
  /api/Order:
    get:
      operationId: OrderController_GetOrder
      parameters:
        - { name: MessageType, in: query, type: string }
        - { name: MessageClassName, in: query, type: string }
        - { name: SessionId, in: query, type: string }
        - { name: id, in: query, type: integer, format: int64 }
        - { name: includeLines, in: query, type: boolean }
        - { name: debugToken, in: query, type: string }
      responses:
        "200":
          description: Success
          schema: { $ref: "#/definitions/Shop.Client.Order" }
definitions:
  Unisys.Message:
    type: object
    properties:
      MessageType: { type: string }
      MessageClassName: { type: string }
      SessionId: { type: string }
  Shop.Client.Order:
    type: object
    properties:
      MessageType: { type: string }
      MessageClassName: { type: string }
      SessionId: { type: string }
      id: { type: integer, format: int64 }
      total: { type: number, format: double }
      status: { type: string, enum: [Open, Shipped, Cancelled] }
      internalFlag: { type: boolean }
`

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := cli.NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("cli execute %v: %v", args, err)
	}
	return out.String()
}

func digestFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func TestE2E_Generate_Deterministic(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	for _, ext := range []string{"json", "yaml"} {
		for _, mode := range [][]string{nil, {"--legacy"}} {
			out1 := filepath.Join(dir, "a", strings.Join(mode, "")+"swagger."+ext)
			out2 := filepath.Join(dir, "b", strings.Join(mode, "")+"swagger."+ext)
			runCLI(t, append([]string{"generate", "--catalog", shopCatalog, "--out", out1}, mode...)...)
			runCLI(t, append([]string{"generate", "--catalog", shopCatalog, "--out", out2}, mode...)...)

			if sum1, sum2 := digestFile(t, out1), digestFile(t, out2); sum1 != sum2 {
				t.Fatalf("outputs differ between runs for %s %v: %s != %s", ext, mode, sum1, sum2)
			}
		}
	}
}

func TestE2E_Generate_RicherIsValidOpenAPI3(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "swagger.json")
	runCLI(t, "generate", "--catalog", shopCatalog, "--out", out)

	doc, err := openapi3.NewLoader().LoadFromFile(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("output does not validate: %v", err)
	}

	for id, ref := range doc.Components.Schemas {
		if !strings.Contains(id, ".Client.") {
			continue
		}
		s := ref.Value
		if len(s.AllOf) != 2 || s.AllOf[0].Ref != "#/components/schemas/Unisys.Message" {
			t.Fatalf("%s is not composed over the root:\n%s", id, spew.Sdump(s.AllOf))
		}
		if len(s.Properties) != 0 {
			t.Fatalf("%s keeps direct properties: %v", id, s.Properties)
		}
	}
	if _, ok := doc.Components.Schemas["Shop.Internal.AuditRecord"]; ok {
		t.Fatalf("non-client type should not be registered")
	}
}

func TestE2E_Generate_LegacyIsSwagger2(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "swagger.yaml")
	runCLI(t, "generate", "--catalog", shopCatalog, "--out", out, "--legacy")

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	js, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var doc openapi2.T
	if err := json.Unmarshal(js, &doc); err != nil {
		t.Fatalf("decode swagger 2.0: %v", err)
	}
	if doc.Swagger != "2.0" {
		t.Fatalf("expected swagger 2.0, got %q", doc.Swagger)
	}
	order := doc.Definitions["Shop.Client.Order"]
	if order == nil || order.Value == nil {
		t.Fatalf("order definition missing: %v", spew.Sdump(doc.Definitions))
	}
	if len(order.Value.AllOf) != 0 {
		t.Fatalf("legacy output must not compose")
	}
	if _, ok := order.Value.Properties["MessageType"]; ok {
		t.Fatalf("legacy subtype keeps the discriminator property")
	}
	if _, ok := order.Value.Properties["MessageClassName"]; !ok {
		t.Fatalf("legacy subtype lost MessageClassName")
	}
}

func TestE2E_PostProcessExistingDocument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw.yaml")
	if err := os.WriteFile(raw, []byte(rawDocument), 0o600); err != nil {
		t.Fatalf("write raw: %v", err)
	}
	out := filepath.Join(dir, "swagger.json")
	runCLI(t, "generate", "--catalog", shopCatalog, "--document", raw, "--out", out)

	doc, err := openapi3.NewLoader().LoadFromFile(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}

	op := doc.Paths["/api/Order"].Get
	var params []string
	for _, p := range op.Parameters {
		params = append(params, p.Value.Name)
	}
	if strings.Join(params, ",") != "id,includeLines" {
		t.Fatalf("unexpected parameters after pruning: %v", params)
	}

	root := doc.Components.Schemas["Unisys.Message"].Value
	if root.Discriminator == nil || root.Discriminator.PropertyName != "MessageType" {
		t.Fatalf("root discriminator missing:\n%s", spew.Sdump(root.Discriminator))
	}
	if _, ok := root.Properties["SessionId"]; ok {
		t.Fatalf("unexported SessionId kept on root")
	}

	order := doc.Components.Schemas["Shop.Client.Order"].Value
	if len(order.AllOf) != 2 {
		t.Fatalf("order not composed:\n%s", spew.Sdump(order))
	}
	residual := order.AllOf[1].Value
	if _, ok := residual.Properties["internalFlag"]; ok {
		t.Fatalf("unexported internalFlag kept")
	}
	status := residual.Properties["status"]
	if status == nil || status.Value.Extensions["x-ms-enum"] == nil {
		t.Fatalf("status enum not decorated:\n%s", spew.Sdump(status))
	}

	// Client subtypes missing from the raw document are generated.
	if _, ok := doc.Components.Schemas["Shop.Client.Promotion"]; !ok {
		t.Fatalf("Shop.Client.Promotion not generated")
	}
}

func TestE2E_Inspect(t *testing.T) {
	t.Parallel()
	out := runCLI(t, "inspect", "--catalog", shopCatalog)
	for _, want := range []string{"Operations (4):", "- POST /api/Order/upload", "discriminator=MessageType"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}
}
