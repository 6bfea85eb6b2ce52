package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/toto/internal/domain/filter"
	types "github.com/okian/toto/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerateRequest(t *testing.T) {
	Convey("Given a generate request body", t, func() {
		Convey("When constraints are omitted", func() {
			var req types.GenerateRequest
			err := json.Unmarshal([]byte(`{"selections":[["1"],["0","2"]]}`), &req)

			Convey("Then constraints should stay nil", func() {
				So(err, ShouldBeNil)
				So(req.Selections, ShouldResemble, [][]string{{"1"}, {"0", "2"}})
				So(req.Constraints, ShouldBeNil)
			})
		})

		Convey("When constraints are partial", func() {
			req := types.GenerateRequest{}
			base := filter.DefaultConfig()
			req.Constraints = &base
			err := json.Unmarshal([]byte(`{"constraints":{"max_home_wins":6,"draws":{"min":2,"max":5}}}`), &req)

			Convey("Then missing fields should keep their prior values", func() {
				So(err, ShouldBeNil)
				So(req.Constraints.MaxHomeWins, ShouldEqual, 6)
				So(req.Constraints.Draws, ShouldResemble, filter.Range{Min: 2, Max: 5})
				So(req.Constraints.Group2Draws, ShouldResemble, filter.DefaultConfig().Group2Draws)
			})
		})
	})
}

func TestExport(t *testing.T) {
	Convey("Given an export", t, func() {
		e := types.Export{Filename: "zlg-columns-2024-05-01.csv", ContentType: "text/csv", Rows: 2, Body: []byte("x")}

		Convey("Then the body should not be serialised", func() {
			b, err := json.Marshal(e)
			So(err, ShouldBeNil)
			So(string(b), ShouldNotContainSubstring, "Body")
			So(string(b), ShouldContainSubstring, `"rows":2`)
		})
	})
}
