package recipes

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/prompt"
	"github.com/zipdatape/menu-scripts/internal/ui"
	"github.com/zipdatape/menu-scripts/internal/util"
)

// ESIndex is one row of the _cat/indices API.
type ESIndex struct {
	Health    string `json:"health"`
	Status    string `json:"status"`
	Index     string `json:"index"`
	DocsCount string `json:"docs.count"`
	StoreSize string `json:"store.size"`
}

// ESClient talks to one Elasticsearch cluster with basic auth.
type ESClient struct {
	BaseURL  string
	User     string
	Password string
	HTTP     *http.Client
}

// Indices lists indices, largest first.
func (c *ESClient) Indices(ctx context.Context) ([]ESIndex, error) {
	resp, err := c.do(ctx, http.MethodGet, "/_cat/indices?format=json&s=store.size:desc")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var indices []ESIndex
	if err := json.NewDecoder(resp.Body).Decode(&indices); err != nil {
		return nil, fmt.Errorf("decode indices: %w", err)
	}
	return indices, nil
}

// Delete removes one index.
func (c *ESClient) Delete(ctx context.Context, index string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/"+url.PathEscape(index))
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *ESClient) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.BaseURL, "/")+path, nil)
	if err != nil {
		return nil, err
	}
	if c.User != "" {
		req.SetBasicAuth(c.User, c.Password)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: %s %s", method, path, resp.Status, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

func validateHostPort(s string) error {
	s = strings.TrimSpace(s)
	host, port, err := net.SplitHostPort(s)
	if err != nil || host == "" || port == "" {
		return fmt.Errorf("enter host:port, e.g. localhost:9200")
	}
	return nil
}

// esHTTPClient returns the client for a cluster, skipping certificate
// checks when insecure is set.
func (d *Deps) esHTTPClient(insecure bool) *http.Client {
	client := &http.Client{Timeout: d.Config.Elasticsearch.Timeout}
	if d.HTTP != nil {
		c := *d.HTTP
		client = &c
	}
	if insecure {
		client.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in via elasticsearch.insecure
		}
	}
	return client
}

// manageElasticsearch lists indices and deletes the ones the operator
// picks until they choose Back.
func (d *Deps) manageElasticsearch(ctx context.Context) menu.Result {
	cfg := d.Config.Elasticsearch

	useTLS, err := d.Prompt.Confirm("Connect to Elasticsearch over HTTPS?")
	if err != nil {
		return interrupted(err)
	}
	host, err := d.inputDefault("Elasticsearch host", cfg.Host, validateHostPort)
	if err != nil {
		return interrupted(err)
	}
	user, err := d.Prompt.Input("Elasticsearch user", "elastic", prompt.Required("User"))
	if err != nil {
		return interrupted(err)
	}
	password, err := d.Prompt.Password("Elasticsearch password")
	if err != nil {
		return interrupted(err)
	}

	scheme := "http"
	if useTLS || cfg.SSL {
		scheme = "https"
	}
	es := &ESClient{
		BaseURL:  scheme + "://" + host,
		User:     strings.TrimSpace(user),
		Password: password,
		HTTP:     d.esHTTPClient(scheme == "https" && cfg.Insecure),
	}

	deleted := 0
	for {
		indices, err := es.Indices(ctx)
		if err != nil {
			d.logf().Error("list indices: %v", err)
			return menu.Failure("Couldn't list indices on " + host)
		}

		d.say("%s", ui.TitleStyle().Render("Indices on "+host))
		d.say("%s", renderIndices(indices))

		names := make([]string, len(indices))
		for i, idx := range indices {
			names[i] = fmt.Sprintf("%s (%s)", idx.Index, idx.StoreSize)
		}
		choice, ok, err := d.Menu.ChooseOr(ctx, "Select an index to delete", "No indices found.", names)
		if err != nil {
			return interrupted(err)
		}
		if !ok {
			break
		}

		name := indices[choice].Index
		sure, err := d.Prompt.Confirm("Delete index " + name + "?")
		if err != nil {
			return interrupted(err)
		}
		if !sure {
			d.say("Operation cancelled.")
			continue
		}

		if err := es.Delete(ctx, name); err != nil {
			d.logf().Error("delete %s: %v", name, err)
			d.say("%s", statusLine(false, "Failed to delete index "+name))
			continue
		}
		deleted++
		d.say("%s", statusLine(true, "Index "+name+" deleted"))
	}

	if deleted == 0 {
		return menu.Success("No indices deleted")
	}
	return menu.Success(fmt.Sprintf("Deleted %d %s", deleted, util.Pluralize(deleted, "index", "indices")))
}

func renderIndices(indices []ESIndex) string {
	titles := []string{"HEALTH", "STATUS", "INDEX", "DOCS", "SIZE"}
	rows := make([][]string, len(indices))
	for i, idx := range indices {
		rows[i] = []string{idx.Health, idx.Status, idx.Index, idx.DocsCount, idx.StoreSize}
	}
	return ui.RenderSimpleTable(ui.ColumnsFor(titles, rows), rows)
}
