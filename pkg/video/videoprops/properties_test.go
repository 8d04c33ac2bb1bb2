package videoprops_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
)

func TestSetOverwritesTypeButKeepsKeyOrder(t *testing.T) {
	is := is.New(t)
	props := videoprops.New()
	props.Set("quality", videoprops.Number(80))
	props.Set("compression", videoprops.Text("best"))
	props.Set("quality", videoprops.Text("high"))

	is.Equal(props.Keys(), []string{"quality", "compression"})
	is.Equal(props.Type("quality"), videoprops.TEXT)
	_, ok := props.Number("quality")
	is.True(!ok)
	s, ok := props.Text("quality")
	is.True(ok)
	is.Equal(s, "high")
}

func TestFromTokensPicksShapeByCount(t *testing.T) {
	is := is.New(t)

	is.Equal(videoprops.FromTokens().Kind, videoprops.UNSET)

	one := videoprops.FromTokens("25")
	is.Equal(one.Kind, videoprops.NUMBER)
	is.Equal(one.Num, 25.0)

	is.Equal(videoprops.FromTokens("fast").Kind, videoprops.TEXT)

	many := videoprops.FromTokens("1", "two", "3.5")
	is.Equal(many.Kind, videoprops.LIST)
	is.Equal(len(many.List), 3)
	is.Equal(many.List[1], videoprops.Text("two"))
	is.Equal(many.String(), "1 two 3.5")
}

func TestEraseAndClear(t *testing.T) {
	is := is.New(t)
	props := videoprops.New()
	props.Set("a", videoprops.Unset())
	props.Set("b", videoprops.Number(1))
	props.Set("c", videoprops.Number(2))

	props.Erase("b")
	is.Equal(props.Keys(), []string{"a", "c"})
	v, ok := props.Get("a")
	is.True(ok)
	is.True(v.IsUnset())

	props.Clear()
	is.Equal(props.Len(), 0)
	_, ok = props.Get("a")
	is.True(!ok)
}

func TestCloneIsIndependent(t *testing.T) {
	is := is.New(t)
	props := videoprops.New()
	props.Set("fps", videoprops.Number(25))

	c := props.Clone()
	c.Set("fps", videoprops.Number(30))
	c.Set("extra", videoprops.Unset())

	fps, _ := props.Number("fps")
	is.Equal(fps, 25.0)
	is.Equal(props.Len(), 1)
}

func TestFromInterfaceConvertsDecodedJSON(t *testing.T) {
	is := is.New(t)
	v, err := videoprops.FromInterface([]interface{}{1.0, "x", nil})
	is.NoErr(err)
	is.Equal(v.Kind, videoprops.LIST)
	is.Equal(v.List[2].Kind, videoprops.UNSET)

	_, err = videoprops.FromInterface(struct{}{})
	is.True(err != nil)
}

func TestZeroValuePropertiesIsUsable(t *testing.T) {
	is := is.New(t)
	var props videoprops.Properties
	props.Set("k", videoprops.Number(1))
	is.Equal(props.Len(), 1)
}
