package controller

import (
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/francis-chui/rbush-knn/controller/collection"
	"github.com/francis-chui/rbush-knn/controller/log"
)

// The store keeps one bucket per collection key holding id => GeoJSON.

func (c *Controller) openStore() error {
	db, err := bolt.Open(filepath.Join(c.dir, "data.db"), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return err
	}
	c.db = db
	return nil
}

func (c *Controller) loadStore() error {
	start := time.Now()
	var objects int
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			col := collection.New()
			err := b.ForEach(func(k, v []byte) error {
				obj, err := collection.ParseObject(string(v))
				if err != nil {
					return err
				}
				col.ReplaceOrInsert(string(k), obj)
				objects++
				return nil
			})
			if err != nil {
				return err
			}
			if col.Count() > 0 {
				c.setCol(string(name), col)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	log.Infof("loaded %d objects in %d keys in %s", objects, c.cols.Len(), time.Since(start))
	return nil
}

func (c *Controller) writeStore(d *commandDetailsT) error {
	if c.db == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		switch d.command {
		case "set":
			b, err := tx.CreateBucketIfNotExists([]byte(d.key))
			if err != nil {
				return err
			}
			return b.Put([]byte(d.id), []byte(d.obj.JSON()))
		case "del":
			b := tx.Bucket([]byte(d.key))
			if b == nil {
				return nil
			}
			if err := b.Delete([]byte(d.id)); err != nil {
				return err
			}
			if k, _ := b.Cursor().First(); k == nil {
				return tx.DeleteBucket([]byte(d.key))
			}
		case "drop":
			if err := tx.DeleteBucket([]byte(d.key)); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
		case "flushdb":
			var names [][]byte
			err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
				names = append(names, append([]byte(nil), name...))
				return nil
			})
			if err != nil {
				return err
			}
			for _, name := range names {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
