package gconf

import (
	"encoding/json"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/harbortest"
	"github.com/safeharbor/harbor/harbortest/assert"
	"github.com/safeharbor/harbor/store"
)

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *myconfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &myconfig{Owner: harbortest.RandomAddr(t), Num: 852151421, Str: "foo"},
		},
		"invalid address cannot be saved": {
			Conf:        &myconfig{Owner: harbor.Address("too short")},
			WantSaveErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got myconfig
			if err := Load(db, "mypkg", &got); err != nil {
				t.Fatalf("cannot load configuration: %s", err)
			}
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var c myconfig
	if err := Load(db, "mypkg", &c); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %+v", err)
	}
}

func TestInitConfig(t *testing.T) {
	owner := harbortest.RandomAddr(t)
	raw, err := json.Marshal(map[string]interface{}{
		"mypkg": myconfig{Owner: owner, Num: 7, Str: "seven"},
	})
	assert.Nil(t, err)

	cases := map[string]struct {
		Opts    harbor.Options
		WantErr *errors.Error
		Want    *myconfig
	}{
		"configuration is loaded from genesis": {
			Opts: harbor.Options{"conf": raw},
			Want: &myconfig{Owner: owner, Num: 7, Str: "seven"},
		},
		"missing conf section": {
			Opts:    harbor.Options{},
			WantErr: errors.ErrNotFound,
		},
		"missing package section": {
			Opts:    harbor.Options{"conf": []byte(`{"otherpkg": {}}`)},
			WantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			Opts:    harbor.Options{"conf": []byte(`{"mypkg": {"Num": 1}}`)},
			WantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			var c myconfig
			if err := InitConfig(db, tc.Opts, "mypkg", &c); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.Want == nil {
				return
			}
			var got myconfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Want, &got)
		})
	}
}
