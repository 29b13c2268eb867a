package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cattus/internal/domain/shelter"
)

const (
	MsgCameraCreated      = "Câmera cadastrada com sucesso!"
	MsgCameraUpdated      = "Dados da câmera atualizados com sucesso!"
	MsgCameraDeleted      = "Câmera removida com sucesso!"
	MsgCameraSaveFailed   = "Erro ao salvar câmera"
	MsgCameraDeleteFailed = "Erro ao remover câmera"
)

type Cameras struct {
	api *API
}

func (a *API) Cameras() *Cameras {
	return &Cameras{api: a}
}

func (c *Cameras) List(ctx context.Context, page Page) ([]shelter.Camera, error) {
	var out []shelter.Camera
	if err := c.api.getJSON(ctx, "/cameras", page.query(), &out); err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	return out, nil
}

func (c *Cameras) Get(ctx context.Context, id string) (shelter.Camera, error) {
	var out shelter.Camera
	if err := c.api.getJSON(ctx, "/cameras/"+escape(id), nil, &out); err != nil {
		return shelter.Camera{}, fmt.Errorf("get camera %s: %w", id, err)
	}
	return out, nil
}

func (c *Cameras) Create(ctx context.Context, in shelter.CameraInput) (shelter.Camera, error) {
	var out shelter.Camera
	err := c.api.sendJSON(ctx, http.MethodPost, "/cameras", in, &out)
	if err == nil && out.ID == "" {
		err = errors.New("create camera: response carries no id")
	}
	if err := c.api.mutation(err, MsgCameraCreated, MsgCameraSaveFailed); err != nil {
		return shelter.Camera{}, err
	}
	return out, nil
}

func (c *Cameras) Update(ctx context.Context, id string, in shelter.CameraInput) error {
	err := c.api.sendJSON(ctx, http.MethodPatch, "/cameras/"+escape(id), in, nil)
	return c.api.mutation(err, MsgCameraUpdated, MsgCameraSaveFailed)
}

func (c *Cameras) Delete(ctx context.Context, id string) error {
	err := c.api.sendJSON(ctx, http.MethodDelete, "/cameras/"+escape(id), nil, nil)
	return c.api.mutation(err, MsgCameraDeleted, MsgCameraDeleteFailed)
}
