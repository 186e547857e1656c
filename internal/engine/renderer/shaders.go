package renderer

const globeVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;
out vec3 vWorldPos;
out vec2 vUV;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(uModel) * aNormal;
    vUV = aUV;
    gl_Position = uViewProj * world;
}
`

const globeFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vWorldPos;
in vec2 vUV;

uniform sampler2D uTexture;
uniform int uUseTexture;
uniform vec3 uLightDir;
uniform vec3 uLightColor;
uniform vec3 uAmbient;
uniform vec3 uFillDir;
uniform vec3 uFillColor;
uniform vec3 uEye;

out vec4 FragColor;

float gridLine(float coord, float spacing) {
    float f = abs(fract(coord / spacing + 0.5) - 0.5) * spacing;
    float w = fwidth(coord) * 1.2;
    return 1.0 - smoothstep(0.0, w, f);
}

void main() {
    vec3 n = normalize(vNormal);
    vec3 base;
    if (uUseTexture == 1) {
        base = texture(uTexture, vUV).rgb;
    } else {
        float lat = 90.0 - vUV.y * 180.0;
        float lon = vUV.x * 360.0 - 180.0;
        float grid = max(gridLine(lat, 15.0), gridLine(lon, 15.0));
        vec3 ocean = mix(vec3(0.02, 0.08, 0.22), vec3(0.05, 0.18, 0.38), 0.5 + 0.5 * n.y);
        base = mix(ocean, vec3(0.31, 0.67, 1.0), grid * 0.35);
    }

    float diffuse = max(dot(n, normalize(uLightDir)), 0.0);
    float fill = max(dot(n, normalize(uFillDir)), 0.0);
    vec3 viewDir = normalize(uEye - vWorldPos);
    vec3 halfDir = normalize(normalize(uLightDir) + viewDir);
    float specular = pow(max(dot(n, halfDir), 0.0), 10.0) * 0.25;

    vec3 color = base * (uAmbient + uLightColor * diffuse + uFillColor * fill) + vec3(specular);
    float rim = pow(1.0 - max(dot(n, viewDir), 0.0), 3.0);
    color += vec3(0.31, 0.67, 1.0) * rim * 0.25;
    FragColor = vec4(color, 1.0);
}
`

const colorVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uMVP;

out vec4 vColor;

void main() {
    vColor = aColor;
    gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const colorFragmentShader = `
#version 410 core

in vec4 vColor;
uniform vec4 uTint;

out vec4 FragColor;

void main() {
    FragColor = vColor * uTint;
}
`

const starVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in float aSize;

uniform mat4 uViewProj;
uniform float uTime;
uniform float uPointScale;

out float vAlpha;

void main() {
    gl_Position = uViewProj * vec4(aPos, 1.0);
    float twinkle = 0.75 + 0.25 * sin(uTime + aPos.x * 0.37 + aPos.y * 0.11);
    vAlpha = twinkle;
    gl_PointSize = aSize * uPointScale;
}
`

const starFragmentShader = `
#version 410 core

in float vAlpha;
out vec4 FragColor;

void main() {
    vec2 c = gl_PointCoord - vec2(0.5);
    float d = dot(c, c);
    if (d > 0.25) {
        discard;
    }
    float fade = 1.0 - d * 4.0;
    FragColor = vec4(vec3(1.0), vAlpha * fade);
}
`
