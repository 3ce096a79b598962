/*
Package orm stores models in prefixed sections of the database called
buckets.

Every bucket holds a single model type, keyed by a primary key. A bucket may
maintain secondary indexes that map a value computed from the model to the
primary keys of all models producing it. Indexes are kept in sync on every
Put and Delete, within the same store, so they are committed or discarded
together with the models.
*/
package orm
