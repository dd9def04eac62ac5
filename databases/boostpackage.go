package databases

//go generate: mockery --name BoostPackageDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motog-app/motog-app-be/models"
)

const boostPackageName = "boost_packages"

// BoostPackageDatabase contains the methods to use with the boost package catalog
type BoostPackageDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.BoostPackage, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.BoostPackage, error)
	InsertOne(ctx context.Context, pkg models.BoostPackage) (interface{}, error)
}

type boostPackageDatabase struct {
	db DatabaseHelper
}

// NewBoostPackageDatabase initializes a new instance of boost package database with the provided db connection
func NewBoostPackageDatabase(db DatabaseHelper) BoostPackageDatabase {
	return &boostPackageDatabase{
		db: db,
	}
}

func (c *boostPackageDatabase) FindOne(ctx context.Context, filter interface{}) (*models.BoostPackage, error) {
	pkg := &models.BoostPackage{}
	err := c.db.Collection(boostPackageName).FindOne(ctx, filter).Decode(&pkg)
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

func (c *boostPackageDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.BoostPackage, error) {
	cursor, err := c.db.Collection(boostPackageName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var pkgs []models.BoostPackage
	if err := cursor.Decode(&pkgs); err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (c *boostPackageDatabase) InsertOne(ctx context.Context, pkg models.BoostPackage) (interface{}, error) {
	res, err := c.db.Collection(boostPackageName).InsertOne(ctx, pkg)
	if err != nil {
		return nil, err
	}
	return res.Decode(), nil
}
