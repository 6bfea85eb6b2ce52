package table_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/toto/internal/adapters/table"
	"github.com/okian/toto/internal/domain/model"
	"github.com/okian/toto/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func column(s string) model.Combination {
	c, err := model.ParseCombination(s)
	if err != nil {
		panic(err)
	}
	return c
}

const header = "Column,Match1,Match2,Match3,Match4,Match5,Match6,Match7,Match8,Match9,Match10,Match11,Match12,Match13,Match14,Match15"

func TestWrite(t *testing.T) {
	Convey("Given two columns", t, func() {
		combos := []model.Combination{
			column("1 1 1 1 1 1 1 0 2 2 2 2 2 2 2"),
			column("0 1 2 0 1 2 0 1 2 0 1 2 0 1 2"),
		}

		Convey("When rendering the table", func() {
			out := table.Format(combos)
			lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

			Convey("Then it has a header and numbered rows", func() {
				So(len(lines), ShouldEqual, 3)
				So(lines[0], ShouldEqual, header)
				So(lines[1], ShouldEqual, "1,1,1,1,1,1,1,1,0,2,2,2,2,2,2,2")
				So(lines[2], ShouldEqual, "2,0,1,2,0,1,2,0,1,2,0,1,2,0,1,2")
			})
		})

		Convey("When rendering plain lines", func() {
			var b bytes.Buffer
			So(table.WriteLines(&b, combos), ShouldBeNil)
			So(b.String(), ShouldEqual, "1 1 1 1 1 1 1 0 2 2 2 2 2 2 2\n0 1 2 0 1 2 0 1 2 0 1 2 0 1 2\n")
		})
	})

	Convey("Given an export day", t, func() {
		day := time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)
		So(table.Filename(day), ShouldEqual, "zlg-columns-2026-10-17.csv")
	})
}

func TestRead(t *testing.T) {
	Convey("Given a table with malformed rows", t, func() {
		src := header + "\r\n" +
			"1,1,1,1,1,1,1,1,0,2,2,2,2,2,2,2\r\n" +
			"\r\n" +
			"2,1,1,1\r\n" +
			"3,1,1,1,1,1,1,1,0,2,2,2,2,2,2,2,9\r\n" +
			"4,1,1,1,1,1,1,1,X,2,2,2,2,2,2,2\r\n" +
			"5, 0,1,2,0,1,2,0,1,2,0,1,2,0,1,2\r\n"

		rows, st, err := table.Read(strings.NewReader(src))

		Convey("Then usable rows are kept and the rest dropped", func() {
			So(err, ShouldBeNil)
			So(st.Rows, ShouldEqual, 2)
			So(st.Dropped, ShouldEqual, 3)
			So(rows[0].Position, ShouldEqual, 1)
			So(rows[0].Column, ShouldEqual, 1)
			So(rows[1].Position, ShouldEqual, 2)
			So(rows[1].Column, ShouldEqual, 5)
			So(rows[1].Combination.String(), ShouldEqual, "0 1 2 0 1 2 0 1 2 0 1 2 0 1 2")
		})
	})

	Convey("Given tables that cannot be used", t, func() {
		cases := []string{
			"",
			"Match1,Match2\n1,1\n",
			strings.Replace(header, "Column", "Index", 1) + "\n1,1,1,1,1,1,1,1,0,2,2,2,2,2,2,2\n",
			header + "\n1,2,3\n",
		}
		for _, src := range cases {
			_, _, err := table.Read(strings.NewReader(src))
			So(errors.Is(err, table.ErrInvalidTable), ShouldBeTrue)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a filtered set exported and imported again", t, func() {
		ctx := context.Background()
		off, err := model.ParseOfficialResult("1 1 1 1 1 1 1 0 2 2 2 2 2 2 0")
		So(err, ShouldBeNil)
		combos := []model.Combination{
			column("1 1 1 1 1 1 1 0 2 2 2 2 2 2 2"), // 14
			column("1 1 1 1 1 1 1 0 2 2 2 2 2 2 0"), // 15
			column("1 1 1 1 1 1 1 0 2 2 2 0 0 0 0"), // 12
			column("0 0 0 0 0 0 0 0 0 0 0 0 0 0 0"), // 2
		}

		var b bytes.Buffer
		So(table.Write(&b, combos), ShouldBeNil)
		rows, _, err := table.Read(&b)
		So(err, ShouldBeNil)
		imported := table.Combinations(rows)

		Convey("Then the columns are unchanged", func() {
			So(imported, ShouldResemble, combos)
		})

		Convey("And correct counts match the in-memory scoring", func() {
			scorer := scoring.NewTierScorer()
			direct, err := scorer.Score(ctx, combos, off)
			So(err, ShouldBeNil)
			batch, err := scorer.ScoreRows(ctx, imported, off)
			So(err, ShouldBeNil)

			So(direct.Hits15, ShouldEqual, batch.Hits15)
			So(direct.Hits14, ShouldEqual, batch.Hits14)
			So(direct.Hits13, ShouldEqual, batch.Hits13)
			So(direct.PrizeWinning(), ShouldEqual, 3)
			So(batch.Above, ShouldEqual, 2)
		})
	})
}
