package source_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/toto/internal/adapters/source"
	"github.com/okian/toto/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func schedulePage(rows int) string {
	var b strings.Builder
	b.WriteString("<html><body><table><tbody>")
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&b, `<tr class="match-row odd"><td>%d</td><td class="home-team"> Team  %dA </td><td><span class="away-team">Team %dB</span></td></tr>`, i, i, i)
	}
	b.WriteString(`<tr class="header"><td class="home-team">ignored</td></tr>`)
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

func TestFileSource(t *testing.T) {
	Convey("Given a slate file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "matches.json")
		b, err := json.Marshal(source.Placeholder())
		So(err, ShouldBeNil)
		So(os.WriteFile(path, b, 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			matches, err := source.NewFileSource(path).Matches(context.Background())

			Convey("Then all fifteen matches are returned in order", func() {
				So(err, ShouldBeNil)
				So(len(matches), ShouldEqual, model.SlateSize)
				So(matches[0].Home, ShouldEqual, "Home 1")
				So(matches[14].Away, ShouldEqual, "Away 15")
			})
		})

		Convey("When the file holds a short slate", func() {
			So(os.WriteFile(path, []byte(`[{"home":"a","away":"b"}]`), 0o600), ShouldBeNil)
			_, err := source.NewFileSource(path).Matches(context.Background())
			So(errors.Is(err, source.ErrLoadSlate), ShouldBeTrue)
		})

		Convey("When the file is missing", func() {
			_, err := source.NewFileSource(filepath.Join(dir, "nope.json")).Matches(context.Background())
			So(errors.Is(err, source.ErrLoadSlate), ShouldBeTrue)
		})
	})
}

func TestScheduleSource(t *testing.T) {
	Convey("Given a schedule server", t, func() {
		rows := model.SlateSize
		status := http.StatusOK
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(schedulePage(rows)))
		}))
		defer srv.Close()
		src := source.NewScheduleSource(srv.URL, source.WithTimeout(2*time.Second))

		Convey("When the page lists a full slate", func() {
			matches, err := src.Matches(context.Background())

			Convey("Then team names are scraped and whitespace collapsed", func() {
				So(err, ShouldBeNil)
				So(len(matches), ShouldEqual, model.SlateSize)
				So(matches[0], ShouldResemble, model.Match{Home: "Team 1A", Away: "Team 1B"})
				So(matches[14].Away, ShouldEqual, "Team 15B")
			})
		})

		Convey("When the page lists fewer matches", func() {
			rows = 12
			_, err := src.Matches(context.Background())
			So(errors.Is(err, source.ErrScheduleMismatch), ShouldBeTrue)
		})

		Convey("When the server fails", func() {
			status = http.StatusBadGateway
			_, err := src.Matches(context.Background())
			So(errors.Is(err, source.ErrScheduleUnreachable), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable host", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		_, err := source.NewScheduleSource(url).Matches(context.Background())
		So(errors.Is(err, source.ErrScheduleUnreachable), ShouldBeTrue)
	})

	Convey("Given custom selectors", t, func() {
		page := strings.NewReplacer("match-row", "fixture", "home-team", "h", "away-team", "a").Replace(schedulePage(model.SlateSize))
		src := source.NewScheduleSource("http://unused", source.WithSelectors("fixture", "h", "a"))
		matches, err := src.Parse(strings.NewReader(page))
		So(err, ShouldBeNil)
		So(len(matches), ShouldEqual, model.SlateSize)
	})
}
